package k8s

import (
	"context"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/storeplane/storeplane/internal/util/naming"
)

// ApplyQuota creates the resource quota and default limit range for a store
// namespace. Either object already existing is treated as success. A limit
// range failure after the quota succeeded is logged but not fatal: the quota
// alone is enough to keep a tenant bounded.
func (c *Client) ApplyQuota(ctx context.Context, namespace string) error {
	quota := &corev1.ResourceQuota{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Quota,
			Namespace: namespace,
		},
		Spec: corev1.ResourceQuotaSpec{
			Hard: corev1.ResourceList{
				"requests.cpu":           resource.MustParse("1"),
				"requests.memory":        resource.MustParse("2Gi"),
				"limits.cpu":             resource.MustParse("2"),
				"limits.memory":          resource.MustParse("4Gi"),
				"persistentvolumeclaims": resource.MustParse("3"),
				"pods":                   resource.MustParse("10"),
			},
		},
	}

	_, err := c.clientset.CoreV1().ResourceQuotas(namespace).Create(ctx, quota, metav1.CreateOptions{})
	if err != nil {
		if !errors.IsAlreadyExists(err) {
			return clusterErr("create resource quota", namespace+"/"+naming.Quota, err)
		}
		c.logger.Info("resource quota already exists", zap.String("namespace", namespace))
	} else {
		c.logger.Info("created resource quota", zap.String("namespace", namespace))
	}

	limits := &corev1.LimitRange{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.LimitRange,
			Namespace: namespace,
		},
		Spec: corev1.LimitRangeSpec{
			Limits: []corev1.LimitRangeItem{
				{
					Type: corev1.LimitTypeContainer,
					Default: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("500m"),
						corev1.ResourceMemory: resource.MustParse("512Mi"),
					},
					DefaultRequest: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("100m"),
						corev1.ResourceMemory: resource.MustParse("128Mi"),
					},
				},
			},
		},
	}

	_, err = c.clientset.CoreV1().LimitRanges(namespace).Create(ctx, limits, metav1.CreateOptions{})
	if err != nil && !errors.IsAlreadyExists(err) {
		// Soft failure: the quota is already in place.
		c.logger.Warn("failed to create limit range",
			zap.String("namespace", namespace), zap.Error(err))
		return nil
	}

	c.logger.Info("applied limit range", zap.String("namespace", namespace))
	return nil
}
