package domain

// Category identifies the subsystem a log entry originates from
type Category string

const (
	CategoryHTTP          Category = "http"
	CategoryAuth          Category = "auth"
	CategorySCIMUser      Category = "scim.user"
	CategorySCIMGroup     Category = "scim.group"
	CategorySCIMPatch     Category = "scim.patch"
	CategorySCIMFilter    Category = "scim.filter"
	CategorySCIMDiscovery Category = "scim.discovery"
	CategoryEndpoint      Category = "endpoint"
	CategoryDatabase      Category = "database"
	CategoryBackup        Category = "backup"
	CategoryOAuth         Category = "oauth"
	CategoryGeneral       Category = "general"
)

// categories is the closed set of known categories, in display order.
var categories = [...]Category{
	CategoryHTTP,
	CategoryAuth,
	CategorySCIMUser,
	CategorySCIMGroup,
	CategorySCIMPatch,
	CategorySCIMFilter,
	CategorySCIMDiscovery,
	CategoryEndpoint,
	CategoryDatabase,
	CategoryBackup,
	CategoryOAuth,
	CategoryGeneral,
}

// CategoryNames returns all known category names in display order
func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// ValidCategory reports whether name is one of the known categories
func ValidCategory(name string) bool {
	for _, c := range categories {
		if string(c) == name {
			return true
		}
	}
	return false
}
