package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

// markJobsSucceeded makes every created job report success immediately.
func markJobsSucceeded(fakeClientset *fake.Clientset) {
	fakeClientset.PrependReactor("create", "jobs",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			job := action.(k8stesting.CreateAction).GetObject().(*batchv1.Job)
			job.Status.Succeeded = 1
			return false, nil, nil
		})
}

func TestRunStoreSetupJob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)
	markJobsSucceeded(fakeClientset)

	err := c.RunStoreSetupJob(ctx, "store-abc123", "abc123", "Acme Shop")
	require.NoError(t, err)

	job, err := fakeClientset.BatchV1().Jobs("store-abc123").Get(ctx, "wc-setup", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), *job.Spec.BackoffLimit)
	assert.NotNil(t, job.Spec.TTLSecondsAfterFinished)

	container := job.Spec.Template.Spec.Containers[0]
	script := container.Command[2]
	assert.Contains(t, script, "wp core is-installed")
	assert.Contains(t, script, "wp plugin install woocommerce --activate")
	assert.Contains(t, script, "woocommerce_enable_guest_checkout")

	env := map[string]string{}
	for _, e := range container.Env {
		env[e.Name] = e.Value
	}
	assert.Equal(t, "http://abc123.shops.example.com", env["STORE_URL"])
	assert.Equal(t, "Acme Shop", env["STORE_TITLE"])
}

func TestRunStoreSetupJob_FailedJob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, fakeClientset := newTestClient(t)

	fakeClientset.PrependReactor("create", "jobs",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			job := action.(k8stesting.CreateAction).GetObject().(*batchv1.Job)
			job.Status.Failed = 1
			return false, nil, nil
		})

	err := c.RunStoreSetupJob(ctx, "store-abc123", "abc123", "Acme Shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}
