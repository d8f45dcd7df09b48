package k8s

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// pollInterval is the fixed cadence for all readiness polling. The workloads
// involved settle in 30s to a couple of minutes, so backoff buys nothing and
// a fixed interval keeps the worst-case wait easy to reason about.
const pollInterval = 5 * time.Second

// IsDeploymentReady reports whether a deployment's observed ready replicas
// meet its desired count. Read errors are reported as not ready.
func (c *Client) IsDeploymentReady(ctx context.Context, namespace, name string) bool {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return false
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}
	return deployment.Status.ReadyReplicas >= desired
}

// WaitForDeploymentReady polls until the deployment is ready or the timeout
// elapses, in which case it fails with a TimeoutError naming the resource.
func (c *Client) WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error {
	//nolint:staticcheck // SA1019: fixed-interval PollImmediate matches the readiness model here
	err := wait.PollImmediate(pollInterval, timeout, func() (bool, error) {
		return c.IsDeploymentReady(ctx, namespace, name), nil
	})
	if err != nil {
		return &TimeoutError{Resource: "deployment " + namespace + "/" + name, Timeout: timeout}
	}

	c.logger.Info("deployment is ready",
		zap.String("namespace", namespace), zap.String("deployment", name))
	return nil
}

// WaitForStatefulSetReady polls until the statefulset's ready replicas meet
// its desired count or the timeout elapses.
func (c *Client) WaitForStatefulSetReady(ctx context.Context, namespace, name string, timeout time.Duration) error {
	//nolint:staticcheck // SA1019: fixed-interval PollImmediate matches the readiness model here
	err := wait.PollImmediate(pollInterval, timeout, func() (bool, error) {
		statefulSet, err := c.clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}

		desired := int32(1)
		if statefulSet.Spec.Replicas != nil {
			desired = *statefulSet.Spec.Replicas
		}
		return statefulSet.Status.ReadyReplicas >= desired, nil
	})
	if err != nil {
		return &TimeoutError{Resource: "statefulset " + namespace + "/" + name, Timeout: timeout}
	}

	c.logger.Info("statefulset is ready",
		zap.String("namespace", namespace), zap.String("statefulset", name))
	return nil
}

// WaitForJobComplete polls until the job succeeds, fails, or the timeout
// elapses. A failed pod count aborts the wait immediately. A not-found read
// is tolerated as transient since the job may not be visible right after
// creation; any other read error aborts the wait.
func (c *Client) WaitForJobComplete(ctx context.Context, namespace, name string, timeout time.Duration) error {
	//nolint:staticcheck // SA1019: fixed-interval PollImmediate matches the readiness model here
	err := wait.PollImmediate(pollInterval, timeout, func() (bool, error) {
		job, err := c.clientset.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if errors.IsNotFound(err) {
				return false, nil
			}
			return false, clusterErr("read job", namespace+"/"+name, err)
		}

		if job.Status.Succeeded >= 1 {
			return true, nil
		}
		if job.Status.Failed > 0 {
			return false, fmt.Errorf("job %s/%s failed", namespace, name)
		}
		return false, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return &TimeoutError{Resource: "job " + namespace + "/" + name, Timeout: timeout}
		}
		return err
	}

	c.logger.Info("job completed",
		zap.String("namespace", namespace), zap.String("job", name))
	return nil
}
