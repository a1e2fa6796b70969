package category

import "strings"

// ObjectType is the kind of inventory object a line item can become.
type ObjectType string

const (
	TypeAsset      ObjectType = "asset"
	TypeConsumable ObjectType = "consumable"
	TypeComponent  ObjectType = "component"
	TypeService    ObjectType = "service"
	TypeSoftware   ObjectType = "software"
	TypeOther      ObjectType = "other"
)

// Types returns all object types in display order.
func Types() []ObjectType {
	return []ObjectType{
		TypeAsset,
		TypeConsumable,
		TypeComponent,
		TypeService,
		TypeSoftware,
		TypeOther,
	}
}

// ParseObjectType maps a recognition hint onto a known object type.
// Unknown or empty hints fall back to consumable.
func ParseObjectType(s string) ObjectType {
	switch t := ObjectType(strings.ToLower(s)); t {
	case TypeAsset, TypeConsumable, TypeComponent, TypeService, TypeSoftware, TypeOther:
		return t
	}

	return TypeConsumable
}

// Category is a named classification tag scoped to an object type. Identity
// is the (object type, name) pair; name comparisons are case-insensitive.
type Category struct {
	Name        string
	Description string
	Icon        string
	Color       string
}
