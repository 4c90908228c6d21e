package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func podOnNode(name, namespace, node string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       corev1.PodSpec{NodeName: node},
	}
}

func TestCordonNode(t *testing.T) {
	t.Parallel()
	clientset := fake.NewSimpleClientset(dedicatedNode("metal-1", "prod"))
	client := NewWithClientset(clientset)

	require.NoError(t, client.CordonNode(context.Background(), "metal-1"))

	node, err := clientset.CoreV1().Nodes().Get(context.Background(), "metal-1", metav1.GetOptions{})
	require.NoError(t, err)
	assert.True(t, node.Spec.Unschedulable)

	// Cordoning again is a no-op, as is cordoning a vanished node.
	assert.NoError(t, client.CordonNode(context.Background(), "metal-1"))
	assert.NoError(t, client.CordonNode(context.Background(), "metal-9"))
}

func TestDrainNode_EvictsOnlyEvictablePods(t *testing.T) {
	t.Parallel()
	daemonPod := podOnNode("kube-proxy-x", "kube-system", "metal-1")
	daemonPod.OwnerReferences = []metav1.OwnerReference{{Kind: "DaemonSet", Name: "kube-proxy"}}

	mirrorPod := podOnNode("etcd-metal-1", "kube-system", "metal-1")
	mirrorPod.Annotations = map[string]string{corev1.MirrorPodAnnotationKey: "mirror"}

	clientset := fake.NewSimpleClientset(
		podOnNode("app-1", "default", "metal-1"),
		podOnNode("app-2", "default", "metal-1"),
		podOnNode("elsewhere", "default", "metal-2"),
		daemonPod,
		mirrorPod,
	)
	// The fake clientset does not serve field selectors for pods, so
	// filter spec.nodeName by hand the way the API server would.
	clientset.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		pods, err := clientset.Tracker().List(
			corev1.SchemeGroupVersion.WithResource("pods"),
			corev1.SchemeGroupVersion.WithKind("Pod"),
			metav1.NamespaceAll,
		)
		if err != nil {
			return true, nil, err
		}
		list := pods.(*corev1.PodList)
		filtered := &corev1.PodList{}
		for _, p := range list.Items {
			if p.Spec.NodeName == "metal-1" {
				filtered.Items = append(filtered.Items, p)
			}
		}
		return true, filtered, nil
	})

	var evicted []string
	clientset.PrependReactor("create", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		create, ok := action.(k8stesting.CreateAction)
		if !ok || action.GetSubresource() != "eviction" {
			return false, nil, nil
		}
		obj, err := meta.Accessor(create.GetObject())
		if err != nil {
			return true, nil, err
		}
		evicted = append(evicted, obj.GetName())
		return true, nil, nil
	})

	client := NewWithClientset(clientset)
	require.NoError(t, client.DrainNode(context.Background(), "metal-1"))

	assert.ElementsMatch(t, []string{"app-1", "app-2"}, evicted,
		"daemonset pods, mirror pods, and pods on other nodes stay put")
}

func TestDeleteNode_ToleratesAbsence(t *testing.T) {
	t.Parallel()
	clientset := fake.NewSimpleClientset(dedicatedNode("metal-1", "prod"))
	client := NewWithClientset(clientset)

	require.NoError(t, client.DeleteNode(context.Background(), "metal-1"))
	assert.NoError(t, client.DeleteNode(context.Background(), "metal-1"))

	nodes, err := clientset.CoreV1().Nodes().List(context.Background(), metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, nodes.Items)
}

func TestEvictable(t *testing.T) {
	t.Parallel()
	plain := podOnNode("app", "default", "metal-1")
	assert.True(t, evictable(plain))

	daemon := podOnNode("ds", "default", "metal-1")
	daemon.OwnerReferences = []metav1.OwnerReference{{Kind: "DaemonSet"}}
	assert.False(t, evictable(daemon))

	mirror := podOnNode("mirror", "default", "metal-1")
	mirror.Annotations = map[string]string{corev1.MirrorPodAnnotationKey: "x"}
	assert.False(t, evictable(mirror))
}
