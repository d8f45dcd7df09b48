package k8s

import (
	"context"

	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/storeplane/storeplane/internal/util/labels"
	"github.com/storeplane/storeplane/internal/util/naming"
)

const (
	mariadbImage = "mariadb:10.11"
	mariadbPort  = 3306

	// Fixed database identity the WordPress tier connects with.
	wordpressDatabase = "wordpress"
	wordpressDBUser   = "wordpress"
)

// DeployDatabase provisions the MariaDB tier for a store: a generated
// credential secret, a persistent volume claim, a single-replica StatefulSet
// and its headless service. It blocks until the StatefulSet reports ready or
// the database readiness budget elapses.
func (c *Client) DeployDatabase(ctx context.Context, namespace, storeID string) error {
	password := generatePassword()

	if err := c.createSecret(ctx, namespace, naming.DatabaseSecret, map[string]string{
		"mariadb-root-password": password,
		"mariadb-password":      password,
		"mariadb-database":      wordpressDatabase,
		"mariadb-user":          wordpressDBUser,
	}); err != nil {
		return err
	}

	if err := c.createPVC(ctx, namespace, naming.DatabasePVC, "5Gi"); err != nil {
		return err
	}

	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			Exec: &corev1.ExecAction{
				Command: []string{"sh", "-c", "mysqladmin ping -h localhost -uroot -p$MARIADB_ROOT_PASSWORD"},
			},
		},
	}
	livenessProbe := probe.DeepCopy()
	livenessProbe.InitialDelaySeconds = 30
	livenessProbe.PeriodSeconds = 10
	readinessProbe := probe.DeepCopy()
	readinessProbe.InitialDelaySeconds = 5
	readinessProbe.PeriodSeconds = 5

	replicas := int32(1)
	statefulSet := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Database,
			Namespace: namespace,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: naming.Database,
			Replicas:    &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: labels.Selector(naming.Database),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels.Selector(naming.Database),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  naming.Database,
							Image: mariadbImage,
							Ports: []corev1.ContainerPort{
								{ContainerPort: mariadbPort, Name: "mysql"},
							},
							Env: []corev1.EnvVar{
								secretEnv("MARIADB_ROOT_PASSWORD", naming.DatabaseSecret, "mariadb-root-password"),
								{Name: "MARIADB_DATABASE", Value: wordpressDatabase},
								{Name: "MARIADB_USER", Value: wordpressDBUser},
								secretEnv("MARIADB_PASSWORD", naming.DatabaseSecret, "mariadb-password"),
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: "data", MountPath: "/var/lib/mysql"},
							},
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("100m"),
									corev1.ResourceMemory: resource.MustParse("256Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("500m"),
									corev1.ResourceMemory: resource.MustParse("512Mi"),
								},
							},
							LivenessProbe:  livenessProbe,
							ReadinessProbe: readinessProbe,
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "data",
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: naming.DatabasePVC,
								},
							},
						},
					},
				},
			},
		},
	}

	_, err := c.clientset.AppsV1().StatefulSets(namespace).Create(ctx, statefulSet, metav1.CreateOptions{})
	if err != nil {
		if !errors.IsAlreadyExists(err) {
			return clusterErr("create statefulset", namespace+"/"+naming.Database, err)
		}
		c.logger.Info("statefulset already exists", zap.String("namespace", namespace))
	} else {
		c.logger.Info("created mariadb statefulset", zap.String("namespace", namespace))
	}

	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Database,
			Namespace: namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector:  labels.Selector(naming.Database),
			ClusterIP: corev1.ClusterIPNone,
			Ports: []corev1.ServicePort{
				{Port: mariadbPort},
			},
		},
	}

	if err := c.createService(ctx, namespace, service); err != nil {
		return err
	}

	return c.WaitForStatefulSetReady(ctx, namespace, naming.Database, c.timeouts.DatabaseReady)
}

// secretEnv builds an env var sourced from a secret key.
func secretEnv(name, secretName, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secretName},
				Key:                  key,
			},
		},
	}
}

// createSecret creates an opaque secret, treating AlreadyExists as success.
func (c *Client) createSecret(ctx context.Context, namespace, name string, data map[string]string) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: data,
	}

	_, err := c.clientset.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			c.logger.Info("secret already exists",
				zap.String("namespace", namespace), zap.String("secret", name))
			return nil
		}
		return clusterErr("create secret", namespace+"/"+name, err)
	}

	c.logger.Info("created secret", zap.String("namespace", namespace), zap.String("secret", name))
	return nil
}

// createPVC creates a ReadWriteOnce persistent volume claim, treating
// AlreadyExists as success.
func (c *Client) createPVC(ctx context.Context, namespace, name, size string) error {
	pvc := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(size),
				},
			},
		},
	}

	_, err := c.clientset.CoreV1().PersistentVolumeClaims(namespace).Create(ctx, pvc, metav1.CreateOptions{})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			c.logger.Info("pvc already exists",
				zap.String("namespace", namespace), zap.String("pvc", name))
			return nil
		}
		return clusterErr("create pvc", namespace+"/"+name, err)
	}

	c.logger.Info("created pvc",
		zap.String("namespace", namespace), zap.String("pvc", name), zap.String("size", size))
	return nil
}

// createService creates a service, treating AlreadyExists as success.
func (c *Client) createService(ctx context.Context, namespace string, service *corev1.Service) error {
	_, err := c.clientset.CoreV1().Services(namespace).Create(ctx, service, metav1.CreateOptions{})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			c.logger.Info("service already exists",
				zap.String("namespace", namespace), zap.String("service", service.Name))
			return nil
		}
		return clusterErr("create service", namespace+"/"+service.Name, err)
	}

	c.logger.Info("created service",
		zap.String("namespace", namespace), zap.String("service", service.Name))
	return nil
}
