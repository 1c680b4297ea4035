package ui

import (
	"fyne.io/fyne/v2/lang"
	"golang.org/x/text/language"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyFile            = "file"
	KeyImportLMA       = "import_lma"
	KeyImportJSON      = "import_json"
	KeySaveJSON        = "save_json"
	KeySavePrettyJSON  = "save_pretty_json"
	KeyClear           = "clear"
	KeyQuit            = "quit"
	KeySettings        = "settings"
	KeyLanguage        = "language"
	KeyFilter          = "filter"
	KeyFlaggedOnly     = "flagged_only"
	KeyNothingSelected = "nothing_selected"
	KeyToDelete        = "to_delete"
	KeyNotes           = "notes"
	KeyOpenStorePage   = "open_store_page"
	KeyMaxParallel     = "max_parallel"
	KeyPrettyExport    = "pretty_export"
	KeySave            = "save"
	KeyCancel          = "cancel"
	KeySettingsSaved   = "settings_saved"
	KeyRestartRequired = "restart_required"
	KeyClearConfirm    = "clear_confirm"
	KeyAppsLoaded      = "apps_loaded"
	KeyAppsSaved       = "apps_saved"
	KeyStatusSummary   = "status_summary"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = matchLanguage(systemLocale())
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLocale returns the OS locale, e.g. "ru-RU"
var systemLocale = func() string {
	return string(lang.SystemLocale())
}

var (
	supportedLanguages = []language.Tag{language.English, language.Russian}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

// matchLanguage maps a locale to the closest translated language, English
// when nothing is close
func matchLanguage(locale string) string {
	_, index, _ := languageMatcher.Match(language.Make(locale))
	base, _ := supportedLanguages[index].Base()
	return base.String()
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "Android App Organizer",
		KeyFile:            "File",
		KeyImportLMA:       "Import from LMA text",
		KeyImportJSON:      "Import from JSON",
		KeySaveJSON:        "Save to JSON",
		KeySavePrettyJSON:  "Save to prettified JSON",
		KeyClear:           "Clear",
		KeyQuit:            "Quit",
		KeySettings:        "Settings",
		KeyLanguage:        "Language",
		KeyFilter:          "Filter apps",
		KeyFlaggedOnly:     "Only to delete",
		KeyNothingSelected: "Nothing selected",
		KeyToDelete:        "To delete",
		KeyNotes:           "Notes",
		KeyOpenStorePage:   "Open store page",
		KeyMaxParallel:     "Max parallel icon fetches",
		KeyPrettyExport:    "Prettify JSON by default",
		KeySave:            "Save",
		KeyCancel:          "Cancel",
		KeySettingsSaved:   "Settings saved",
		KeyRestartRequired: "Changes to parallel fetches apply after restart",
		KeyClearConfirm:    "Remove every app from the list?",
		KeyAppsLoaded:      "Loaded %d apps",
		KeyAppsSaved:       "Saved %d apps",
		KeyStatusSummary:   "%d apps, %d to delete, %d icons",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:        "Органайзер Android-приложений",
		KeyFile:            "Файл",
		KeyImportLMA:       "Импорт из текста LMA",
		KeyImportJSON:      "Импорт из JSON",
		KeySaveJSON:        "Сохранить в JSON",
		KeySavePrettyJSON:  "Сохранить в форматированный JSON",
		KeyClear:           "Очистить",
		KeyQuit:            "Выход",
		KeySettings:        "Настройки",
		KeyLanguage:        "Язык",
		KeyFilter:          "Фильтр приложений",
		KeyFlaggedOnly:     "Только к удалению",
		KeyNothingSelected: "Ничего не выбрано",
		KeyToDelete:        "К удалению",
		KeyNotes:           "Заметки",
		KeyOpenStorePage:   "Открыть страницу в магазине",
		KeyMaxParallel:     "Макс. параллельных загрузок иконок",
		KeyPrettyExport:    "Форматировать JSON по умолчанию",
		KeySave:            "Сохранить",
		KeyCancel:          "Отмена",
		KeySettingsSaved:   "Настройки сохранены",
		KeyRestartRequired: "Число параллельных загрузок изменится после перезапуска",
		KeyClearConfirm:    "Удалить все приложения из списка?",
		KeyAppsLoaded:      "Загружено приложений: %d",
		KeyAppsSaved:       "Сохранено приложений: %d",
		KeyStatusSummary:   "Приложений: %d, к удалению: %d, иконок: %d",
	}
}
