package k8s

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/storeplane/storeplane/internal/util/naming"
)

const wpCLIImage = "wordpress:cli-2.11"

// setupScript is the wp-cli bootstrap run once per store after the
// application tier is ready. It waits for WordPress to write its config,
// retries core install until the idempotent is-installed check passes, then
// installs WooCommerce, seeds a sample product when the catalog is empty and
// applies the baseline commerce settings.
const setupScript = `set -e
attempt=0
until [ -f /var/www/html/wp-config.php ]; do
  attempt=$((attempt + 1))
  if [ "$attempt" -gt 90 ]; then
    echo "wp-config.php never appeared"
    exit 1
  fi
  echo "waiting for wp-config.php"
  sleep 2
done
until wp core is-installed; do
  wp core install \
    --url="$STORE_URL" \
    --title="$STORE_TITLE" \
    --admin_user=admin \
    --admin_password="$ADMIN_PASSWORD" \
    --admin_email="admin@$STORE_HOST" \
    --skip-email || true
  sleep 2
done
wp plugin install woocommerce --activate
if [ "$(wp post list --post_type=product --format=count)" = "0" ]; then
  wp wc product create --name="Sample Product" --type=simple \
    --regular_price=19.99 --user=admin
fi
wp option update woocommerce_enable_guest_checkout yes
wp option update woocommerce_ship_to_destination billing
wp wc payment_gateway update cod --enabled=true --user=admin
wp wc payment_gateway update bacs --enabled=true --user=admin
wp option update permalink_structure '/%postname%/'
wp rewrite flush
echo "store setup complete"
`

// RunStoreSetupJob runs the one-shot WooCommerce bootstrap for a store and
// blocks until the job reaches a terminal state or the setup budget elapses.
// The job shares the WordPress content volume and database credentials with
// the application tier.
func (c *Client) RunStoreSetupJob(ctx context.Context, namespace, storeID, storeName string) error {
	host := naming.Hostname(storeID, c.baseDomain)
	backoffLimit := int32(2)
	ttl := int32(600)
	runAsUser := int64(33) // www-data, matching the wordpress image

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.SetupJob,
			Namespace: namespace,
		},
		Spec: batchv1.JobSpec{
			BackoffLimit:            &backoffLimit,
			TTLSecondsAfterFinished: &ttl,
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					SecurityContext: &corev1.PodSecurityContext{
						RunAsUser: &runAsUser,
					},
					Containers: []corev1.Container{
						{
							Name:    "wp-cli",
							Image:   wpCLIImage,
							Command: []string{"sh", "-c", setupScript},
							Env: []corev1.EnvVar{
								{Name: "STORE_URL", Value: naming.StorefrontURL(storeID, c.baseDomain)},
								{Name: "STORE_HOST", Value: host},
								{Name: "STORE_TITLE", Value: storeName},
								{Name: "ADMIN_PASSWORD", Value: generatePassword()},
								{Name: "WORDPRESS_DB_HOST", Value: fmt.Sprintf("%s:%d", naming.Database, mariadbPort)},
								{Name: "WORDPRESS_DB_NAME", Value: wordpressDatabase},
								{Name: "WORDPRESS_DB_USER", Value: wordpressDBUser},
								secretEnv("WORDPRESS_DB_PASSWORD", naming.DatabaseSecret, "mariadb-password"),
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: naming.WordPressPVC, MountPath: "/var/www/html"},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: naming.WordPressPVC,
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: naming.WordPressPVC,
								},
							},
						},
					},
				},
			},
		},
	}

	_, err := c.clientset.BatchV1().Jobs(namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		if !errors.IsAlreadyExists(err) {
			return clusterErr("create job", namespace+"/"+naming.SetupJob, err)
		}
		c.logger.Info("setup job already exists", zap.String("namespace", namespace))
	} else {
		c.logger.Info("created store setup job", zap.String("namespace", namespace))
	}

	return c.WaitForJobComplete(ctx, namespace, naming.SetupJob, c.timeouts.StoreSetup)
}
