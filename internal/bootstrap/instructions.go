package bootstrap

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/imamik/robotpool/internal/fleet"
)

// instructionsTemplate is the operator-facing recipe for joining one
// manual-mode node. It covers both the kubeadm path and the raw kubelet
// bootstrap-kubeconfig path, since dedicated images ship with either.
const instructionsTemplate = `# Join instructions for {{ .Hostname }}

Cluster endpoint: {{ .Endpoint }}
Bootstrap token:  {{ .Token }}

Apply the bootstrap-token secret first (idempotent):

    kubectl apply -f {{ .SecretFile }}

## Option A: kubeadm

    kubeadm join {{ .JoinAddress }} \
        --token {{ .Token }} \
        --discovery-token-unsafe-skip-ca-verification \
        --node-name {{ .Hostname }}

## Option B: raw kubelet bootstrap

Write /etc/kubernetes/bootstrap-kubeconfig:

    apiVersion: v1
    kind: Config
    clusters:
    - name: default
      cluster:
        server: {{ .Endpoint }}
    contexts:
    - name: default
      context:
        cluster: default
        user: kubelet-bootstrap
    current-context: default
    users:
    - name: kubelet-bootstrap
      user:
        token: {{ .Token }}

Then start the kubelet with:

    kubelet \
        --bootstrap-kubeconfig=/etc/kubernetes/bootstrap-kubeconfig \
        --kubeconfig=/var/lib/kubelet/kubeconfig \
        --hostname-override={{ .Hostname }}{{ range .KubeletArgs }} \
        {{ . }}{{ end }}

The node registers as {{ .Hostname }} and receives a signed serving
certificate once the CSR approver admits it.
`

var joinTmpl = template.Must(template.New("join").Parse(instructionsTemplate))

type instructionData struct {
	Hostname    string
	Endpoint    string
	JoinAddress string
	Token       string
	SecretFile  string
	KubeletArgs []string
}

// RenderInstructions produces the join instructions document for one
// manual-mode node. The node's labels and taints become kubelet
// registration flags so the node arrives already classified.
func RenderInstructions(endpoint string, node fleet.Node, tok Token, secretFile string) ([]byte, error) {
	data := instructionData{
		Hostname:    node.Hostname,
		Endpoint:    endpoint,
		JoinAddress: strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
		Token:       tok.String(),
		SecretFile:  secretFile,
		KubeletArgs: kubeletRegistrationArgs(node),
	}

	var buf bytes.Buffer
	if err := joinTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render join instructions: %w", err)
	}
	return buf.Bytes(), nil
}

// kubeletRegistrationArgs renders the node's labels and taints as kubelet
// flags, sorted for stable output.
func kubeletRegistrationArgs(node fleet.Node) []string {
	var args []string

	if len(node.Labels) > 0 {
		keys := make([]string, 0, len(node.Labels))
		for k := range node.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+node.Labels[k])
		}
		args = append(args, "--node-labels="+strings.Join(pairs, ","))
	}

	if len(node.Taints) > 0 {
		taints := make([]string, 0, len(node.Taints))
		for _, t := range node.Taints {
			taints = append(taints, fleet.FormatTaint(t))
		}
		sort.Strings(taints)
		args = append(args, "--register-with-taints="+strings.Join(taints, ","))
	}

	return args
}
