// Package i18n holds the user-facing message catalog.  Messages are keyed by
// a stable error code and localized to Czech (the default) and English.
package i18n

// Lang values accepted by the API.  Anything else falls back to Czech.
const (
	LangCS = "cs"
	LangEN = "en"
)

var messages = map[string]map[string]string{
	"invalid_token": {
		LangCS: "Neplatný přístupový token",
		LangEN: "Invalid access token",
	},
	"car_not_found": {
		LangCS: "Auto nenalezeno",
		LangEN: "Car not found",
	},
	"car_not_yours": {
		LangCS: "Auto nenalezeno nebo není vaše.",
		LangEN: "Car not found or doesn't belong to you.",
	},
	"user_has_car": {
		LangCS: "Uživatel již má auto.",
		LangEN: "User already has a car.",
	},
	"email_registered": {
		LangCS: "Email už je zaregistrovaný",
		LangEN: "Email is already registered",
	},
	"login_failed": {
		LangCS: "Nesprávné přihlašovací údaje",
		LangEN: "Incorrect login credentials",
	},
	"invalid_email": {
		LangCS: "Zadejte platný e-mail.",
		LangEN: "Enter a valid e-mail address.",
	},
	"self_invite": {
		LangCS: "Nemůžete pozvat sami sebe.",
		LangEN: "You cannot invite yourself.",
	},
	"duplicate_pending": {
		LangCS: "Pozvánka pro tento e-mail už existuje.",
		LangEN: "An invitation for this email already exists.",
	},
	"not_found": {
		LangCS: "Pozvánka nebyla nalezena.",
		LangEN: "Invitation not found.",
	},
	"not_pending": {
		LangCS: "Pozvánka již byla vyřízena.",
		LangEN: "Invitation has already been handled.",
	},
	"not_car_owner": {
		LangCS: "Nemáte oprávnění k této pozvánce.",
		LangEN: "You are not authorized to manage this invitation.",
	},
	"already_in_car": {
		LangCS: "Už jste pasažérem v jiném autě.",
		LangEN: "You are already a passenger in another car.",
	},
	"not_passenger": {
		LangCS: "Nejste pasažér v žádném autě.",
		LangEN: "You are not a passenger in any car.",
	},
	"invalid_position": {
		LangCS: "Neplatná pozice sedadla.",
		LangEN: "Invalid seat position.",
	},
	"seat_taken": {
		LangCS: "Toto místo je již obsazené.",
		LangEN: "This seat is already taken.",
	},
	"user_not_in_seat": {
		LangCS: "Nemáte přiřazené místo.",
		LangEN: "You do not have an assigned seat.",
	},
	"unknown_layout": {
		LangCS: "Neznámé rozložení sedadel.",
		LangEN: "Unknown seat layout.",
	},
}

// T returns the message for code in lang.  Unknown languages fall back to
// Czech; unknown codes return the code itself so a missing catalog entry is
// visible instead of silent.
func T(lang, code string) string {
	m, ok := messages[code]
	if !ok {
		return code
	}
	if msg, ok := m[lang]; ok {
		return msg
	}
	return m[LangCS]
}
