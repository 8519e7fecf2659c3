package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/opscart/vm-advisor/pkg/models"
)

func virtualMachine(namespace, name, printableStatus string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "kubevirt.io/v1",
		"kind":       "VirtualMachine",
		"metadata": map[string]interface{}{
			"namespace": namespace,
			"name":      name,
		},
	}}
	if printableStatus != "" {
		obj.Object["status"] = map[string]interface{}{"printableStatus": printableStatus}
	}
	return obj
}

func newFakeSource(objects ...runtime.Object) *KubeVirtSource {
	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{VirtualMachineGVR: "VirtualMachineList"},
		objects...,
	)
	return NewKubeVirtSource(client)
}

func TestToStatusCode(t *testing.T) {
	tests := []struct {
		printable string
		expected  models.StatusCode
	}{
		{"Running", models.StatusRunning},
		{"Stopped", models.StatusStopped},
		{"Paused", models.StatusPaused},
		{"Starting", models.StatusStarting},
		{"Migrating", models.StatusInMigrate},
		{"Provisioning", models.StatusBuilding},
		{"CrashLoopBackOff", models.StatusError},
		{"ErrorPvcNotFound", models.StatusError},
		{"Stopping", "stopping"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.printable, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToStatusCode(tt.printable))
		})
	}
}

func TestKubeVirtSource_GetStatus(t *testing.T) {
	source := newFakeSource(
		virtualMachine("prod", "web-1", "Running"),
		virtualMachine("prod", "fresh", ""),
	)
	ctx := context.Background()

	status, err := source.GetStatus(ctx, "prod", "web-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, status)

	status, err = source.GetStatus(ctx, "prod", "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCode(""), status)

	_, err = source.GetStatus(ctx, "prod", "missing")
	assert.ErrorContains(t, err, "prod/missing")
}

func TestKubeVirtSource_ListStatuses(t *testing.T) {
	source := newFakeSource(
		virtualMachine("prod", "web-2", "Paused"),
		virtualMachine("prod", "web-1", "Migrating"),
		virtualMachine("dev", "sandbox", "Stopped"),
	)
	ctx := context.Background()

	prod, err := source.ListStatuses(ctx, "prod")
	require.NoError(t, err)
	assert.Equal(t, []models.MachineStatus{
		{Namespace: "prod", Name: "web-1", Status: models.StatusInMigrate},
		{Namespace: "prod", Name: "web-2", Status: models.StatusPaused},
	}, prod)

	all, err := source.ListStatuses(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "dev", all[0].Namespace)
	assert.Equal(t, "kubevirt", source.Name())
}
