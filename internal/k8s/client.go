// Package k8s provisions and tears down the cluster resources backing a
// single store: namespace, quota, database tier, application tier, ingress
// and the one-shot setup job.
//
// Every create operation is idempotent by convention: a conflict from the
// API server is treated as success. A previous partial provisioning run may
// have left resources behind, and treating conflicts as fatal would make a
// failed store permanently un-retryable.
package k8s

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Timeouts bounds the blocking waits issued during provisioning.
type Timeouts struct {
	DatabaseReady   time.Duration // StatefulSet readiness inside DeployDatabase
	DeploymentReady time.Duration // application tier readiness
	StoreSetup      time.Duration // setup job completion
}

// DefaultTimeouts returns the timeout budget used when none is configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		DatabaseReady:   2 * time.Minute,
		DeploymentReady: 5 * time.Minute,
		StoreSetup:      10 * time.Minute,
	}
}

// Client issues store provisioning operations against a Kubernetes cluster.
type Client struct {
	clientset  kubernetes.Interface
	baseDomain string
	timeouts   Timeouts
	logger     *zap.Logger
}

// NewClient creates a Client from the in-cluster service account when the
// process runs inside the cluster, falling back to the given kubeconfig path.
func NewClient(kubeconfigPath, baseDomain string, timeouts Timeouts, logger *zap.Logger) (*Client, error) {
	restConfig, err := rest.InClusterConfig()
	if err != nil {
		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
		}
		logger.Info("loaded kubernetes config from kubeconfig", zap.String("path", kubeconfigPath))
	} else {
		logger.Info("loaded kubernetes config from cluster")
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &Client{
		clientset:  clientset,
		baseDomain: baseDomain,
		timeouts:   timeouts,
		logger:     logger,
	}, nil
}

// NewFromClientset creates a Client from a pre-configured clientset.
// This is useful for testing with fake clients.
func NewFromClientset(clientset kubernetes.Interface, baseDomain string, timeouts Timeouts, logger *zap.Logger) *Client {
	return &Client{
		clientset:  clientset,
		baseDomain: baseDomain,
		timeouts:   timeouts,
		logger:     logger,
	}
}

// Ping verifies connectivity to the cluster API server.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return fmt.Errorf("cluster API unreachable: %w", err)
	}
	return ctx.Err()
}
