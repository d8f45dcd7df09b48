package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestDeployWordPress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)

	err := c.DeployWordPress(ctx, "store-abc123", "abc123")
	require.NoError(t, err)

	pvc, err := fakeClientset.CoreV1().PersistentVolumeClaims("store-abc123").Get(ctx, "wordpress-data", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "10Gi", pvc.Spec.Resources.Requests.Storage().String())

	deployment, err := fakeClientset.AppsV1().Deployments("store-abc123").Get(ctx, "wordpress", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, appsv1.RecreateDeploymentStrategyType, deployment.Spec.Strategy.Type)
	assert.Equal(t, int32(1), *deployment.Spec.Replicas)

	// The init container gates startup on database reachability.
	require.Len(t, deployment.Spec.Template.Spec.InitContainers, 1)
	assert.Equal(t, "wait-for-db", deployment.Spec.Template.Spec.InitContainers[0].Name)
	assert.Contains(t, deployment.Spec.Template.Spec.InitContainers[0].Command[2], "nc -z mariadb 3306")

	container := deployment.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "wordpress:6.4-apache", container.Image)

	env := map[string]corev1.EnvVar{}
	for _, e := range container.Env {
		env[e.Name] = e
	}
	assert.Equal(t, "mariadb:3306", env["WORDPRESS_DB_HOST"].Value)
	assert.Equal(t, "wordpress", env["WORDPRESS_DB_NAME"].Value)
	require.NotNil(t, env["WORDPRESS_DB_PASSWORD"].ValueFrom)
	assert.Equal(t, "mariadb-secret", env["WORDPRESS_DB_PASSWORD"].ValueFrom.SecretKeyRef.Name)

	svc, err := fakeClientset.CoreV1().Services("store-abc123").Get(ctx, "wordpress", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.ServiceTypeClusterIP, svc.Spec.Type)
	assert.Equal(t, int32(80), svc.Spec.Ports[0].Port)
}

func TestDeployWordPress_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.DeployWordPress(ctx, "store-abc123", "abc123"))
	require.NoError(t, c.DeployWordPress(ctx, "store-abc123", "abc123"))
}
