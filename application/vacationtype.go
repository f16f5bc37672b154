package application

// =============================================================================
// VACATION CATEGORY
// =============================================================================

// VacationCategory classifies what a vacation type counts against.
// Only HOLIDAY applications consume vacation-day entitlement.
type VacationCategory string

const (
	CategoryHoliday      VacationCategory = "HOLIDAY"
	CategoryOvertime     VacationCategory = "OVERTIME"
	CategorySpecialLeave VacationCategory = "SPECIALLEAVE"
	CategoryUnpaidLeave  VacationCategory = "UNPAIDLEAVE"
	CategoryOther        VacationCategory = "OTHER"
)

// =============================================================================
// VACATION TYPE - Provided (built-in) or Custom (user-defined)
// =============================================================================

// VacationType describes a kind of vacation. There are two variants sharing
// the same capability surface:
//
//   - ProvidedVacationType: built-in, labeled via a message catalog key
//   - CustomVacationType:   user-defined, labeled per locale
//
// Callers that only need category/approval/visibility semantics work
// against this interface; display code resolves the label per variant.
type VacationType interface {
	ID() int64
	IsActive() bool
	Category() VacationCategory
	RequiresApprovalToApply() bool
	RequiresApprovalToCancel() bool
	Color() string
	VisibleToEveryone() bool

	// Label resolves the display label for a BCP 47 locale tag.
	Label(locale string) string
}

// VacationTypeAttributes is the shared data of both variants.
type VacationTypeAttributes struct {
	TypeID           int64
	Active           bool
	TypeCategory     VacationCategory
	ApprovalToApply  bool
	ApprovalToCancel bool
	TypeColor        string
	EveryoneVisible  bool
}

func (a VacationTypeAttributes) ID() int64                      { return a.TypeID }
func (a VacationTypeAttributes) IsActive() bool                 { return a.Active }
func (a VacationTypeAttributes) Category() VacationCategory     { return a.TypeCategory }
func (a VacationTypeAttributes) RequiresApprovalToApply() bool  { return a.ApprovalToApply }
func (a VacationTypeAttributes) RequiresApprovalToCancel() bool { return a.ApprovalToCancel }
func (a VacationTypeAttributes) Color() string                  { return a.TypeColor }
func (a VacationTypeAttributes) VisibleToEveryone() bool        { return a.EveryoneVisible }

// MessageResolver translates a message catalog key for a locale.
// The default resolver just echoes the key.
type MessageResolver func(messageKey, locale string) string

// ProvidedVacationType is a built-in vacation type whose label comes from
// the message catalog.
type ProvidedVacationType struct {
	VacationTypeAttributes
	MessageKey string
	Messages   MessageResolver
}

func (t ProvidedVacationType) Label(locale string) string {
	if t.Messages == nil {
		return t.MessageKey
	}
	return t.Messages(t.MessageKey, locale)
}

// CustomVacationType is a user-defined vacation type labeled per locale.
type CustomVacationType struct {
	VacationTypeAttributes
	LabelByLocale map[string]string
}

func (t CustomVacationType) Label(locale string) string {
	if label, ok := t.LabelByLocale[locale]; ok {
		return label
	}
	// fall back to any label rather than an empty string
	for _, label := range t.LabelByLocale {
		return label
	}
	return ""
}

var (
	_ VacationType = ProvidedVacationType{}
	_ VacationType = CustomVacationType{}
)
