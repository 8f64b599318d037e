package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // session optional
	SecurityAccess                      // access token required
)

// EndpointSecurityConfig maps HTTP route names to their required security
// level. Routes missing from the map require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health": SecurityPublic,

	// Availability reads are open to renters browsing a trailer
	"GetDayStatus":          SecurityPublic,
	"GetSlotAvailability":   SecurityPublic,
	"GetCalendar":           SecurityPublic,
	"CheckBookable":         SecurityPublic,
	"GetWeeklyAvailability": SecurityPublic,
	"ListExceptions":        SecurityPublic,

	// Lessor calendar management
	"UpdateWeeklyAvailability":         SecurityAccess,
	"UpdateLessorCalendarAvailability": SecurityAccess,
	"UpsertException":                  SecurityAccess,
	"DeleteException":                  SecurityAccess,
	"ListBlockedPeriods":               SecurityAccess,
	"AddBlockedPeriod":                 SecurityAccess,
	"RemoveBlockedPeriod":              SecurityAccess,
	"BlockSelection":                   SecurityAccess,
	"UnblockSelection":                 SecurityAccess,
}

// RequiredLevel returns the security level of a named route.
func RequiredLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
