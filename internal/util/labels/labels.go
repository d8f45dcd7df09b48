// Package labels provides consistent labeling for store-owned cluster resources.
//
// Every namespace the platform creates is tagged with ownership labels so that
// stray tenant namespaces can be identified and garbage-collected out of band.
package labels

// Standard label keys.
const (
	// KeyManagedBy identifies the management system.
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyType identifies what kind of tenant resource a namespace holds.
	KeyType = "store-platform/type"

	// KeyApp is the workload selector key inside a store namespace.
	KeyApp = "app"
)

// Label values.
const (
	ManagedByPlatform = "store-platform"
	TypeStore         = "store"
)

// ForNamespace returns the ownership labels applied to every store namespace.
func ForNamespace() map[string]string {
	return map[string]string{
		KeyManagedBy: ManagedByPlatform,
		KeyType:      TypeStore,
	}
}

// Selector returns the selector labels for a workload inside a store namespace.
func Selector(app string) map[string]string {
	return map[string]string{
		KeyApp: app,
	}
}
