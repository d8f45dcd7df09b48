package k8s

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/storeplane/storeplane/internal/util/labels"
	"github.com/storeplane/storeplane/internal/util/naming"
)

const (
	wordpressImage = "wordpress:6.4-apache"
	busyboxImage   = "busybox:1.36"
	wordpressPort  = 80
)

// DeployWordPress provisions the application tier for a store: a persistent
// volume claim for site content, a single-replica Deployment and its
// ClusterIP service. The pod carries an init container that blocks until the
// database port is reachable, so the Deployment can be created before the
// database is ready.
func (c *Client) DeployWordPress(ctx context.Context, namespace, storeID string) error {
	if err := c.createPVC(ctx, namespace, naming.WordPressPVC, "10Gi"); err != nil {
		return err
	}

	replicas := int32(1)
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.WordPress,
			Namespace: namespace,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: labels.Selector(naming.WordPress),
			},
			// Recreate is fine here: replicas is always 1 and brief downtime
			// on re-deploy is acceptable, while a rolling overlap would
			// contend on the RWO content volume.
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RecreateDeploymentStrategyType,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels.Selector(naming.WordPress),
				},
				Spec: corev1.PodSpec{
					InitContainers: []corev1.Container{
						{
							Name:  "wait-for-db",
							Image: busyboxImage,
							Command: []string{
								"sh", "-c",
								fmt.Sprintf("until nc -z %s %d; do echo waiting for %s; sleep 2; done;",
									naming.Database, mariadbPort, naming.Database),
							},
						},
					},
					Containers: []corev1.Container{
						{
							Name:  naming.WordPress,
							Image: wordpressImage,
							Ports: []corev1.ContainerPort{
								{ContainerPort: wordpressPort, Name: "http"},
							},
							Env: []corev1.EnvVar{
								{Name: "WORDPRESS_DB_HOST", Value: fmt.Sprintf("%s:%d", naming.Database, mariadbPort)},
								{Name: "WORDPRESS_DB_NAME", Value: wordpressDatabase},
								{Name: "WORDPRESS_DB_USER", Value: wordpressDBUser},
								secretEnv("WORDPRESS_DB_PASSWORD", naming.DatabaseSecret, "mariadb-password"),
								{
									Name:  "WORDPRESS_CONFIG_EXTRA",
									Value: "define('WP_HOME', 'http://' . $_SERVER['HTTP_HOST']); define('WP_SITEURL', 'http://' . $_SERVER['HTTP_HOST']);",
								},
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: naming.WordPressPVC, MountPath: "/var/www/html"},
							},
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("200m"),
									corev1.ResourceMemory: resource.MustParse("256Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("1"),
									corev1.ResourceMemory: resource.MustParse("1Gi"),
								},
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path: "/wp-admin/install.php",
										Port: intstr.FromInt32(wordpressPort),
									},
								},
								InitialDelaySeconds: 60,
								PeriodSeconds:       15,
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path: "/wp-admin/install.php",
										Port: intstr.FromInt32(wordpressPort),
									},
								},
								InitialDelaySeconds: 30,
								PeriodSeconds:       5,
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

	_, err := c.clientset.AppsV1().Deployments(namespace).Create(ctx, deployment, metav1.CreateOptions{})
	if err != nil {
		if !errors.IsAlreadyExists(err) {
			return clusterErr("create deployment", namespace+"/"+naming.WordPress, err)
		}
		c.logger.Info("deployment already exists", zap.String("namespace", namespace))
	} else {
		c.logger.Info("created wordpress deployment", zap.String("namespace", namespace))
	}

	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.WordPress,
			Namespace: namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector: labels.Selector(naming.WordPress),
			Type:     corev1.ServiceTypeClusterIP,
			Ports: []corev1.ServicePort{
				{Port: wordpressPort, TargetPort: intstr.FromInt32(wordpressPort)},
			},
		},
	}

	return c.createService(ctx, namespace, service)
}
