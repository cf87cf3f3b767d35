package domain

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// OutputType tags how an agent output payload is stored.
type OutputType string

const (
	OutputTypeJSON OutputType = "json"
	OutputTypeText OutputType = "text"
)

// ServiceType is the canonical tag for a search-result set.
type ServiceType string

const (
	ServiceTypeFlight      ServiceType = "flight"
	ServiceTypeHotel       ServiceType = "hotel"
	ServiceTypeTransport   ServiceType = "transport"
	ServiceTypeAttractions ServiceType = "attractions"
)

// resultCollection binds a raw payload key to its canonical service type.
type resultCollection struct {
	Key     string
	Service ServiceType
}

// ResultCollections is the closed, priority-ordered set of recognized
// result-collection keys. The first non-empty key wins and the rest are
// skipped, so one output contributes at most one result set. Trains and
// buses intentionally share the transport tag.
var ResultCollections = []resultCollection{
	{Key: "flights", Service: ServiceTypeFlight},
	{Key: "hotels", Service: ServiceTypeHotel},
	{Key: "trains", Service: ServiceTypeTransport},
	{Key: "buses", Service: ServiceTypeTransport},
	{Key: "attractions", Service: ServiceTypeAttractions},
}

// ParseServiceType maps a free-form service name from extracted entities
// to a canonical ServiceType. Unknown names return false.
func ParseServiceType(s string) (ServiceType, bool) {
	switch s {
	case "flight", "flights":
		return ServiceTypeFlight, true
	case "hotel", "hotels":
		return ServiceTypeHotel, true
	case "train", "trains", "bus", "buses", "transport":
		return ServiceTypeTransport, true
	case "attraction", "attractions":
		return ServiceTypeAttractions, true
	}
	return "", false
}
