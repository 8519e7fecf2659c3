package datasource

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/opscart/vm-advisor/pkg/models"
)

// VirtualMachineGVR identifies KubeVirt VirtualMachine objects
var VirtualMachineGVR = schema.GroupVersionResource{
	Group:    "kubevirt.io",
	Version:  "v1",
	Resource: "virtualmachines",
}

// printableStatusCodes maps KubeVirt printable statuses that are spelled
// differently from the hypervisor status codes. Other values are lower-cased.
var printableStatusCodes = map[string]models.StatusCode{
	"Migrating":               models.StatusInMigrate,
	"Provisioning":            models.StatusBuilding,
	"WaitingForVolumeBinding": models.StatusBuilding,
	"CrashLoopBackOff":        models.StatusError,
	"ErrorUnschedulable":      models.StatusError,
	"ErrImagePull":            models.StatusError,
	"ImagePullBackOff":        models.StatusError,
	"ErrorPvcNotFound":        models.StatusError,
	"DataVolumeError":         models.StatusError,
}

// KubeVirtSource reads VM status from KubeVirt VirtualMachine objects
type KubeVirtSource struct {
	client dynamic.Interface
}

// NewKubeVirtSource wraps an existing dynamic client
func NewKubeVirtSource(client dynamic.Interface) *KubeVirtSource {
	return &KubeVirtSource{client: client}
}

// NewKubeVirtSourceFromKubeconfig builds a client from kubeconfig, falling
// back to ~/.kube/config when the path is empty
func NewKubeVirtSourceFromKubeconfig(kubeconfig string) (*KubeVirtSource, error) {
	if kubeconfig == "" {
		if home := homedir.HomeDir(); home != "" {
			kubeconfig = filepath.Join(home, ".kube", "config")
		}
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	client, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return NewKubeVirtSource(client), nil
}

func (k *KubeVirtSource) Name() string {
	return "kubevirt"
}

// GetStatus returns the status code of one VirtualMachine
func (k *KubeVirtSource) GetStatus(ctx context.Context, namespace, name string) (models.StatusCode, error) {
	obj, err := k.client.Resource(VirtualMachineGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get virtual machine %s/%s: %w", namespace, name, err)
	}
	return statusOf(obj), nil
}

// ListStatuses returns the status of every VirtualMachine in namespace,
// sorted by namespace and name. An empty namespace lists all namespaces.
func (k *KubeVirtSource) ListStatuses(ctx context.Context, namespace string) ([]models.MachineStatus, error) {
	if namespace == "" {
		namespace = corev1.NamespaceAll
	}

	list, err := k.client.Resource(VirtualMachineGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual machines: %w", err)
	}

	statuses := make([]models.MachineStatus, 0, len(list.Items))
	for i := range list.Items {
		item := &list.Items[i]
		statuses = append(statuses, models.MachineStatus{
			Namespace: item.GetNamespace(),
			Name:      item.GetName(),
			Status:    statusOf(item),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Namespace != statuses[j].Namespace {
			return statuses[i].Namespace < statuses[j].Namespace
		}
		return statuses[i].Name < statuses[j].Name
	})

	return statuses, nil
}

func statusOf(obj *unstructured.Unstructured) models.StatusCode {
	printable, found, err := unstructured.NestedString(obj.Object, "status", "printableStatus")
	if err != nil || !found {
		return ""
	}
	return ToStatusCode(printable)
}

// ToStatusCode converts a KubeVirt printable status to a status code
func ToStatusCode(printable string) models.StatusCode {
	if code, exists := printableStatusCodes[printable]; exists {
		return code
	}
	return models.StatusCode(strings.ToLower(strings.TrimSpace(printable)))
}
