package k8s

import (
	"context"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/storeplane/storeplane/internal/util/labels"
)

// CreateNamespace creates the namespace isolating a store's resources,
// tagged with platform ownership labels. AlreadyExists is treated as success.
func (c *Client) CreateNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: labels.ForNamespace(),
		},
	}

	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			c.logger.Info("namespace already exists", zap.String("namespace", name))
			return nil
		}
		return clusterErr("create namespace", name, err)
	}

	c.logger.Info("created namespace", zap.String("namespace", name))
	return nil
}

// DeleteNamespace deletes the namespace and everything inside it.
// NotFound is treated as success.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			c.logger.Info("namespace not found, skipping deletion", zap.String("namespace", name))
			return nil
		}
		return clusterErr("delete namespace", name, err)
	}

	c.logger.Info("deleted namespace", zap.String("namespace", name))
	return nil
}
