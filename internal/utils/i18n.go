package utils

// Minimal server-side i18n for fixed keys.
// Swahili is the primary language of the survey; English is the fallback.

const DefaultLocale = "sw"

// SupportedLocales lists the locales with a message table, default first.
var SupportedLocales = []string{"sw", "en"}

var translations = map[string]map[string]string{
	"sw": {
		"health.ok": "sawa",

		"validation.MissingIdentifier":          "Tafadhali ingiza PF Number",
		"validation.IncompleteJobInfo":          "Tafadhali jaza taarifa zote za kazi",
		"validation.IncompleteTrainingEntry":    "Tafadhali kamilisha maelezo yote ya mafunzo (ikiwemo tarehe)!",
		"validation.FutureDate":                 "Tarehe za mafunzo haziwezi kuwa za baadaye (future)!",
		"validation.InvalidDateOrder":           "Tarehe ya kuanza haiwezi kuwa mbele ya kumaliza!",
		"validation.DurationTypeMismatch.short": "Umechagua Muda Mfupi, lakini tarehe zinaonyesha zaidi ya miezi 6. Tafadhali rekebisha.",
		"validation.DurationTypeMismatch.long":  "Umechagua Muda Mrefu, lakini tarehe zinaonyesha chini ya miezi 6. Tafadhali rekebisha.",
		"validation.NoReasonGiven":              "Tafadhali chagua angalau sababu moja",

		"fetch.unauthorized": "Muda wa kuingia umekwisha. Tafadhali ingia tena.",
		"fetch.forbidden":    "Huna ruhusa ya kuona ukurasa huu (Access Denied). Tafadhali wasiliana na ICT/HR.",
		"fetch.failed":       "Kuna tatizo kwenye kupata taarifa.",
		"submit.failed":      "Kuna tatizo kwenye kuwasilisha data.",
		"submit.ok":          "Taarifa zako zimepokelewa kikamilifu.",

		"directory.employeesUnavailable":   "Orodha ya watumishi haipatikani: ",
		"directory.departmentsUnavailable": "Orodha ya idara haipatikani: ",

		"status.trained":    "Wenye Mafunzo",
		"status.notTrained": "Wasio na Mafunzo",
	},
	"en": {
		"health.ok": "ok",

		"validation.MissingIdentifier":          "Please enter the PF Number",
		"validation.IncompleteJobInfo":          "Please fill in all job information",
		"validation.IncompleteTrainingEntry":    "Please complete every training detail (including dates)!",
		"validation.FutureDate":                 "Training dates cannot be in the future!",
		"validation.InvalidDateOrder":           "The start date must be before the end date!",
		"validation.DurationTypeMismatch.short": "You chose Short Term, but the dates span more than 6 months. Please correct them.",
		"validation.DurationTypeMismatch.long":  "You chose Long Term, but the dates span less than 6 months. Please correct them.",
		"validation.NoReasonGiven":              "Please choose at least one reason",

		"fetch.unauthorized": "Your session has expired. Please log in again.",
		"fetch.forbidden":    "You do not have permission to view this page (Access Denied). Please contact ICT/HR.",
		"fetch.failed":       "There was a problem fetching the data.",
		"submit.failed":      "There was a problem submitting the data.",
		"submit.ok":          "Your information has been received.",

		"directory.employeesUnavailable":   "Employee list unavailable: ",
		"directory.departmentsUnavailable": "Department list unavailable: ",

		"status.trained":    "Trained",
		"status.notTrained": "Not trained",
	},
}

// T returns the translated string for key in locale; falls back to Swahili, then English.
func T(locale, key string) string {
	for _, l := range []string{locale, DefaultLocale, "en"} {
		if m, ok := translations[l]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	return key
}
