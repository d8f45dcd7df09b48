// Package naming provides deterministic names for per-store cluster resources.
package naming

import "fmt"

// Naming functions for store resources.
// Every resource provisioned for a store lives in that store's namespace and
// follows a fixed naming pattern so that teardown only needs the store ID.

// Namespace returns the namespace holding all resources for a store.
func Namespace(storeID string) string {
	return fmt.Sprintf("store-%s", storeID)
}

// Hostname returns the public hostname a store is served on.
func Hostname(storeID, baseDomain string) string {
	return fmt.Sprintf("%s.%s", storeID, baseDomain)
}

// StorefrontURL returns the customer-facing URL for a store.
func StorefrontURL(storeID, baseDomain string) string {
	return fmt.Sprintf("http://%s", Hostname(storeID, baseDomain))
}

// AdminURL returns the merchant admin URL for a store.
func AdminURL(storeID, baseDomain string) string {
	return fmt.Sprintf("http://%s/wp-admin", Hostname(storeID, baseDomain))
}

// Fixed in-namespace resource names. These are business names, not tunables:
// the WordPress deployment wires to the database by these names.
const (
	Database       = "mariadb"
	DatabaseSecret = "mariadb-secret"
	DatabasePVC    = "mariadb-data"
	WordPress      = "wordpress"
	WordPressPVC   = "wordpress-data"
	Ingress        = "store-ingress"
	Quota          = "store-quota"
	LimitRange     = "store-limits"
	SetupJob       = "wc-setup"
)
