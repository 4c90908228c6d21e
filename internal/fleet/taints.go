package fleet

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// validTaintEffects are the scheduling effects Kubernetes accepts.
var validTaintEffects = map[corev1.TaintEffect]bool{
	corev1.TaintEffectNoSchedule:       true,
	corev1.TaintEffectPreferNoSchedule: true,
	corev1.TaintEffectNoExecute:        true,
}

// ParseTaint parses the canonical taint form "key[=value]:effect" into a
// corev1.Taint. The value defaults to the empty string when omitted.
// A string without exactly one effect separator is rejected.
func ParseTaint(s string) (corev1.Taint, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return corev1.Taint{}, fmt.Errorf("taint %q: missing effect, want key[=value]:effect", s)
	}

	kv := s[:idx]
	effect := corev1.TaintEffect(s[idx+1:])

	if kv == "" {
		return corev1.Taint{}, fmt.Errorf("taint %q: empty key", s)
	}
	if !validTaintEffects[effect] {
		return corev1.Taint{}, fmt.Errorf("taint %q: unknown effect %q", s, effect)
	}

	key := kv
	value := ""
	if eq := strings.Index(kv, "="); eq >= 0 {
		key = kv[:eq]
		value = kv[eq+1:]
		if key == "" {
			return corev1.Taint{}, fmt.Errorf("taint %q: empty key", s)
		}
		if strings.Contains(value, "=") {
			return corev1.Taint{}, fmt.Errorf("taint %q: value must not contain '='", s)
		}
	}

	return corev1.Taint{Key: key, Value: value, Effect: effect}, nil
}

// parseTaints parses all taint strings of one declaration, attributing
// failures to the declaring hostname.
func parseTaints(hostname string, taints []string) ([]corev1.Taint, error) {
	if len(taints) == 0 {
		return nil, nil
	}

	parsed := make([]corev1.Taint, 0, len(taints))
	for _, s := range taints {
		t, err := ParseTaint(s)
		if err != nil {
			return nil, &ValidationError{Hostname: hostname, Reason: err.Error()}
		}
		parsed = append(parsed, t)
	}
	return parsed, nil
}

// FormatTaint renders a taint back into its canonical string form.
func FormatTaint(t corev1.Taint) string {
	if t.Value == "" {
		return fmt.Sprintf("%s:%s", t.Key, t.Effect)
	}
	return fmt.Sprintf("%s=%s:%s", t.Key, t.Value, t.Effect)
}
