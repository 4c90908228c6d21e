package bootstrap

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/robotpool/internal/util/labels"
)

const (
	// SecretNamespace is where kube-apiserver looks for bootstrap tokens.
	SecretNamespace = "kube-system"

	authExtraGroups = "system:bootstrappers:robotpool:dedicated-nodes"
)

// BuildSecret renders the bootstrap-token secret for one node. The
// secret's name and type follow the kubelet TLS bootstrapping contract,
// so kube-apiserver accepts the token without extra configuration.
func BuildSecret(clusterName, hostname string, tok Token) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      tok.SecretName(),
			Namespace: SecretNamespace,
			Labels: labels.NewBuilder(clusterName).
				WithDedicated().
				Build(),
		},
		Type: corev1.SecretTypeBootstrapToken,
		StringData: map[string]string{
			"token-id":                       tok.ID,
			"token-secret":                   tok.Secret,
			"usage-bootstrap-authentication": "true",
			"usage-bootstrap-signing":        "true",
			"auth-extra-groups":              authExtraGroups,
			"description":                    fmt.Sprintf("kubelet bootstrap token for dedicated server %s", hostname),
		},
	}
}

// SecretManifest renders the bootstrap-token secret as a YAML manifest
// suitable for a file or kubectl apply.
func SecretManifest(clusterName, hostname string, tok Token) ([]byte, error) {
	secret := BuildSecret(clusterName, hostname, tok)
	data, err := sigsyaml.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bootstrap secret: %w", err)
	}
	return data, nil
}
