package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/wildfireconsulting/quantix/internal/i18n"
	"github.com/wildfireconsulting/quantix/internal/license"
)

// Paths reachable before activation: first-run setup and the license
// endpoints themselves.
var gateExempt = []string{
	"/api/setup",
	"/api/company",
	"/api/license",
}

// licenseGate blocks inventory operations until the installation carries an
// allowed license. An unreachable registry answers 503 so clients can retry,
// distinct from a definitive 403.
func licenseGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range gateExempt {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			appCtx := GetApp(c)
			lang := reqLang(c)

			company := appCtx.Company()
			if company == nil || company.LicenseKey == "" {
				return fail(c, http.StatusForbidden, "SETUP_REQUIRED",
					i18n.T(lang, "lic_invalid"), nil)
			}

			status := appCtx.Oracle().Check(c.Request().Context(), company.LicenseKey)
			if status.Allowed() {
				return next(c)
			}
			if status.Retryable() {
				return fail(c, http.StatusServiceUnavailable, "LICENSE_UNREACHABLE",
					i18n.T(lang, "lic_unreachable"), nil)
			}

			switch status {
			case license.StatusSuspended:
				return fail(c, http.StatusForbidden, "LICENSE_SUSPENDED",
					i18n.T(lang, "lic_suspended"), nil)
			case license.StatusBoundElsewhere:
				return fail(c, http.StatusForbidden, "LICENSE_IN_USE",
					i18n.T(lang, "lic_used"), nil)
			default:
				return fail(c, http.StatusForbidden, "LICENSE_INVALID",
					i18n.T(lang, "lic_invalid"), nil)
			}
		}
	}
}
