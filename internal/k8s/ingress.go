package k8s

import (
	"context"

	"go.uber.org/zap"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/storeplane/storeplane/internal/util/naming"
)

const ingressClassName = "nginx"

// CreateIngress exposes a store's application tier on its public hostname.
// AlreadyExists is treated as success. The proxy body size is raised because
// media uploads through the merchant admin routinely exceed the nginx default.
func (c *Client) CreateIngress(ctx context.Context, namespace, storeID string) error {
	host := naming.Hostname(storeID, c.baseDomain)
	className := ingressClassName
	pathType := networkingv1.PathTypePrefix

	ingress := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Ingress,
			Namespace: namespace,
			Annotations: map[string]string{
				"nginx.ingress.kubernetes.io/proxy-body-size": "50m",
			},
		},
		Spec: networkingv1.IngressSpec{
			IngressClassName: &className,
			Rules: []networkingv1.IngressRule{
				{
					Host: host,
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: naming.WordPress,
											Port: networkingv1.ServiceBackendPort{Number: wordpressPort},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	_, err := c.clientset.NetworkingV1().Ingresses(namespace).Create(ctx, ingress, metav1.CreateOptions{})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			c.logger.Info("ingress already exists", zap.String("namespace", namespace))
			return nil
		}
		return clusterErr("create ingress", namespace+"/"+naming.Ingress, err)
	}

	c.logger.Info("created ingress",
		zap.String("namespace", namespace), zap.String("host", host))
	return nil
}
