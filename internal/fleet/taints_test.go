package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func TestParseTaint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected corev1.Taint
		wantErr  bool
	}{
		{
			name:     "key value and effect",
			input:    "dedicated=true:NoSchedule",
			expected: corev1.Taint{Key: "dedicated", Value: "true", Effect: corev1.TaintEffectNoSchedule},
		},
		{
			name:     "key and effect without value",
			input:    "role:PreferNoSchedule",
			expected: corev1.Taint{Key: "role", Value: "", Effect: corev1.TaintEffectPreferNoSchedule},
		},
		{
			name:     "no execute effect",
			input:    "storage=local:NoExecute",
			expected: corev1.Taint{Key: "storage", Value: "local", Effect: corev1.TaintEffectNoExecute},
		},
		{
			name:     "namespaced key",
			input:    "example.com/gpu=a100:NoSchedule",
			expected: corev1.Taint{Key: "example.com/gpu", Value: "a100", Effect: corev1.TaintEffectNoSchedule},
		},
		{
			name:    "missing colon",
			input:   "bad",
			wantErr: true,
		},
		{
			name:    "unknown effect",
			input:   "key=value:Sometimes",
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   "=value:NoSchedule",
			wantErr: true,
		},
		{
			name:    "double equals in value",
			input:   "key=a=b:NoSchedule",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTaint(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseTaints_AttributesHostname(t *testing.T) {
	t.Parallel()
	_, err := parseTaints("metal-1", []string{"ok=yes:NoSchedule", "bad"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "metal-1", verr.Hostname)
}

func TestFormatTaint_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"dedicated=true:NoSchedule", "role:PreferNoSchedule"} {
		taint, err := ParseTaint(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatTaint(taint))
	}
}
