package k8s

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"
)

func TestApplyQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)

	err := c.ApplyQuota(ctx, "store-abc123")
	require.NoError(t, err)

	quota, err := fakeClientset.CoreV1().ResourceQuotas("store-abc123").Get(ctx, "store-quota", metav1.GetOptions{})
	require.NoError(t, err)
	cpu := quota.Spec.Hard["requests.cpu"]
	pods := quota.Spec.Hard["pods"]
	assert.Equal(t, "1", cpu.String())
	assert.Equal(t, "10", pods.String())

	limits, err := fakeClientset.CoreV1().LimitRanges("store-abc123").Get(ctx, "store-limits", metav1.GetOptions{})
	require.NoError(t, err)
	require.Len(t, limits.Spec.Limits, 1)
	assert.Equal(t, "500m", limits.Spec.Limits[0].Default.Cpu().String())
}

func TestApplyQuota_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.ApplyQuota(ctx, "store-abc123"))
	require.NoError(t, c.ApplyQuota(ctx, "store-abc123"))
}

func TestApplyQuota_LimitRangeFailureIsSoft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)

	fakeClientset.PrependReactor("create", "limitranges",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, fmt.Errorf("limit ranges are disabled on this cluster")
		})

	// The quota is in place, so a limit range failure must not fail the step.
	err := c.ApplyQuota(ctx, "store-abc123")
	require.NoError(t, err)

	_, err = fakeClientset.CoreV1().ResourceQuotas("store-abc123").Get(ctx, "store-quota", metav1.GetOptions{})
	assert.NoError(t, err)
}
