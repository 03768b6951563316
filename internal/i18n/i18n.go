// Package i18n holds the PT/EN/ES message catalog for operational messages
// the API surfaces. The language is always an explicit value resolved from
// the request; there is no ambient session state.
package i18n

import "golang.org/x/text/language"

// DefaultLang matches the deployment base the product ships to.
const DefaultLang = "pt"

var supported = []language.Tag{
	language.Portuguese, // first = fallback
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

var codes = map[language.Tag]string{
	language.Portuguese: "pt",
	language.English:    "en",
	language.Spanish:    "es",
}

// Match resolves an Accept-Language header to a supported language code.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, index, _ := matcher.Match(tags...)
	return codes[supported[index]]
}

// T translates a message key. Unknown languages fall back to Portuguese;
// unknown keys fall back to the key itself so a missing translation never
// hides a message.
func T(lang, key string) string {
	table, ok := catalog[lang]
	if !ok {
		table = catalog[DefaultLang]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	if lang != DefaultLang {
		if msg, ok := catalog[DefaultLang][key]; ok {
			return msg
		}
	}
	return key
}

var catalog = map[string]map[string]string{
	"pt": {
		"low_stock":       "BAIXO ESTOQUE",
		"sold":            "VENDIDO",
		"added":           "ADICIONADO",
		"removed":         "REMOVIDO",
		"err_not_found":   "Não encontrado",
		"id_exists":       "ID já existe",
		"invalid_qty":     "Quantidade inválida",
		"name_required":   "Campos obrigatórios.",
		"saved":           "Salvo!",
		"item_updated":    "Item atualizado com sucesso!",
		"delete_ok":       "Item excluído com sucesso!",
		"assets_ok":       "Assets regenerados!",
		"backup_ok":       "Backup gerado!",
		"auto_backup_ok":  "Backup automático criado.",
		"lic_suspended":   "LICENÇA SUSPENSA",
		"lic_used":        "ESTA LICENÇA JÁ ESTÁ EM USO",
		"lic_invalid":     "Chave Inválida",
		"lic_unreachable": "Servidor de licenças indisponível",
	},
	"en": {
		"low_stock":       "LOW STOCK",
		"sold":            "SOLD",
		"added":           "ADDED",
		"removed":         "REMOVED",
		"err_not_found":   "Not Found",
		"id_exists":       "ID already exists",
		"invalid_qty":     "Invalid quantity",
		"name_required":   "All fields required.",
		"saved":           "Saved!",
		"item_updated":    "Item updated successfully!",
		"delete_ok":       "Item deleted successfully!",
		"assets_ok":       "Assets regenerated!",
		"backup_ok":       "Backup generated!",
		"auto_backup_ok":  "Auto-backup created.",
		"lic_suspended":   "LICENSE SUSPENDED",
		"lic_used":        "LICENSE ALREADY IN USE",
		"lic_invalid":     "Invalid Key",
		"lic_unreachable": "License server unreachable",
	},
	"es": {
		"low_stock":       "BAJO STOCK",
		"sold":            "VENDIDO",
		"added":           "AGREGADO",
		"removed":         "QUITADO",
		"err_not_found":   "No Encontrado",
		"id_exists":       "ID ya existe",
		"invalid_qty":     "Cantidad inválida",
		"name_required":   "Campos obligatorios.",
		"saved":           "¡Guardado!",
		"item_updated":    "¡Artículo actualizado!",
		"delete_ok":       "¡Artículo eliminado!",
		"assets_ok":       "¡Regenerado!",
		"backup_ok":       "¡Backup generado!",
		"auto_backup_ok":  "Backup automático creado.",
		"lic_suspended":   "LICENCIA SUSPENDIDA",
		"lic_used":        "LICENCIA EN USO",
		"lic_invalid":     "Clave Inválida",
		"lic_unreachable": "Servidor de licencias no disponible",
	},
}
