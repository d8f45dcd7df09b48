package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

// markStatefulSetsReady makes every created statefulset report ready
// immediately, so deploys that block on readiness return on the first poll.
func markStatefulSetsReady(fakeClientset *fake.Clientset) {
	fakeClientset.PrependReactor("create", "statefulsets",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			sts := action.(k8stesting.CreateAction).GetObject().(*appsv1.StatefulSet)
			sts.Status.ReadyReplicas = 1
			return false, nil, nil
		})
}

func TestDeployDatabase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)
	markStatefulSetsReady(fakeClientset)

	err := c.DeployDatabase(ctx, "store-abc123", "abc123")
	require.NoError(t, err)

	secret, err := fakeClientset.CoreV1().Secrets("store-abc123").Get(ctx, "mariadb-secret", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Len(t, secret.StringData["mariadb-root-password"], 24)
	assert.Equal(t, secret.StringData["mariadb-root-password"], secret.StringData["mariadb-password"])
	assert.Equal(t, "wordpress", secret.StringData["mariadb-database"])
	assert.Equal(t, "wordpress", secret.StringData["mariadb-user"])

	pvc, err := fakeClientset.CoreV1().PersistentVolumeClaims("store-abc123").Get(ctx, "mariadb-data", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "5Gi", pvc.Spec.Resources.Requests.Storage().String())

	sts, err := fakeClientset.AppsV1().StatefulSets("store-abc123").Get(ctx, "mariadb", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mariadb:10.11", sts.Spec.Template.Spec.Containers[0].Image)
	assert.Equal(t, int32(1), *sts.Spec.Replicas)

	svc, err := fakeClientset.CoreV1().Services("store-abc123").Get(ctx, "mariadb", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.ClusterIPNone, svc.Spec.ClusterIP)
	assert.Equal(t, int32(3306), svc.Spec.Ports[0].Port)
}

func TestDeployDatabase_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)
	markStatefulSetsReady(fakeClientset)

	require.NoError(t, c.DeployDatabase(ctx, "store-abc123", "abc123"))
	require.NoError(t, c.DeployDatabase(ctx, "store-abc123", "abc123"))
}

func TestDeployDatabase_ReadinessTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	fakeClientset := fake.NewSimpleClientset()
	timeouts := DefaultTimeouts()
	timeouts.DatabaseReady = 10 * time.Millisecond
	c := NewFromClientset(fakeClientset, "shops.example.com", timeouts, zap.NewNop())

	// No reactor: the statefulset never reports ready.
	err := c.DeployDatabase(ctx, "store-abc123", "abc123")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Contains(t, err.Error(), "statefulset store-abc123/mariadb")
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for range 16 {
		p := generatePassword()
		assert.Len(t, p, 24)
		assert.False(t, seen[p], "passwords must not repeat")
		seen[p] = true
		for _, r := range p {
			assert.Contains(t, passwordAlphabet, string(r))
		}
	}
}
