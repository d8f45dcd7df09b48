package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestCreateIngress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)

	err := c.CreateIngress(ctx, "store-abc123", "abc123")
	require.NoError(t, err)

	ingress, err := fakeClientset.NetworkingV1().Ingresses("store-abc123").Get(ctx, "store-ingress", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "nginx", *ingress.Spec.IngressClassName)
	assert.Equal(t, "50m", ingress.Annotations["nginx.ingress.kubernetes.io/proxy-body-size"])

	require.Len(t, ingress.Spec.Rules, 1)
	rule := ingress.Spec.Rules[0]
	assert.Equal(t, "abc123.shops.example.com", rule.Host)
	require.Len(t, rule.HTTP.Paths, 1)
	assert.Equal(t, "wordpress", rule.HTTP.Paths[0].Backend.Service.Name)
	assert.Equal(t, int32(80), rule.HTTP.Paths[0].Backend.Service.Port.Number)
}

func TestCreateIngress_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.CreateIngress(ctx, "store-abc123", "abc123"))
	require.NoError(t, c.CreateIngress(ctx, "store-abc123", "abc123"))
}
