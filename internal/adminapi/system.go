package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wildfireconsulting/quantix/internal/app"
	"github.com/wildfireconsulting/quantix/internal/i18n"
	"github.com/wildfireconsulting/quantix/internal/license"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

type setupPayload struct {
	CompanyName string `json:"company_name" form:"company_name"`
	LicenseKey  string `json:"license_key" form:"license_key"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/setup", getSetup)
	webserver.ApiPOST("/setup", postSetup)
	webserver.ApiGET("/company", getCompany)
	webserver.ApiPUT("/company", putCompany)
	webserver.ApiGET("/license", getLicense)
	webserver.ApiPOST("/store/refresh", refreshStore)
}

// getSetup reports whether first-run setup completed and which machine
// identity a license would bind to.
func getSetup(c echo.Context) error {
	appCtx := GetApp(c)
	company := appCtx.Company()
	data := map[string]interface{}{
		"initialized": company != nil && company.LicenseKey != "",
		"machine_id":  appCtx.MachineID(),
	}
	if company != nil {
		data["company_name"] = company.CompanyName
	}
	return ok(c, data)
}

// postSetup captures the company profile and license key, then reports the
// registry verdict. The profile persists even when the verdict denies use,
// so a suspended customer keeps their name on reactivation.
func postSetup(c echo.Context) error {
	lang := reqLang(c)

	var payload setupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setup", err.Error())
	}
	payload.CompanyName = strings.TrimSpace(payload.CompanyName)
	payload.LicenseKey = strings.TrimSpace(payload.LicenseKey)
	if payload.CompanyName == "" || payload.LicenseKey == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELD", i18n.T(lang, "name_required"), nil)
	}

	appCtx := GetApp(c)
	if err := appCtx.SaveCompany(&app.CompanyConfig{
		CompanyName: payload.CompanyName,
		LicenseKey:  payload.LicenseKey,
	}); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save profile", err.Error())
	}

	status := appCtx.Oracle().Check(c.Request().Context(), payload.LicenseKey)
	return ok(c, licenseVerdict(appCtx, status))
}

func getCompany(c echo.Context) error {
	company := GetApp(c).Company()
	if company == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Setup has not run yet", nil)
	}
	return ok(c, company)
}

func putCompany(c echo.Context) error {
	lang := reqLang(c)

	var payload setupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", err.Error())
	}
	payload.CompanyName = strings.TrimSpace(payload.CompanyName)
	payload.LicenseKey = strings.TrimSpace(payload.LicenseKey)
	if payload.CompanyName == "" || payload.LicenseKey == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELD", i18n.T(lang, "name_required"), nil)
	}

	appCtx := GetApp(c)
	if err := appCtx.SaveCompany(&app.CompanyConfig{
		CompanyName: payload.CompanyName,
		LicenseKey:  payload.LicenseKey,
	}); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save profile", err.Error())
	}
	return okMsg(c, i18n.T(lang, "saved"), appCtx.Company())
}

func getLicense(c echo.Context) error {
	appCtx := GetApp(c)
	company := appCtx.Company()
	if company == nil || company.LicenseKey == "" {
		return ok(c, map[string]interface{}{
			"status":     license.StatusInvalid,
			"allowed":    false,
			"machine_id": appCtx.MachineID(),
		})
	}
	status := appCtx.Oracle().Check(c.Request().Context(), company.LicenseKey)
	return ok(c, licenseVerdict(appCtx, status))
}

func licenseVerdict(appCtx app.AppContext, status license.Status) map[string]interface{} {
	return map[string]interface{}{
		"status":     status,
		"allowed":    status.Allowed(),
		"retryable":  status.Retryable(),
		"machine_id": appCtx.MachineID(),
	}
}

// refreshStore re-reads the persisted table, discarding in-memory state.
// Useful after out-of-band edits to the data files.
func refreshStore(c echo.Context) error {
	appCtx := GetApp(c)
	if err := appCtx.ReloadStore(); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Reload failed", err.Error())
	}
	return ok(c, map[string]interface{}{"records": appCtx.Store().Len()})
}
