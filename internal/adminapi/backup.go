package adminapi

import (
	"fmt"
	"net/http"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/i18n"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

func registerBackupRoutes() {
	webserver.ApiGET("/inventory/backups", listBackups)
	webserver.ApiPOST("/inventory/backups", runBackup)
	webserver.ApiGET("/inventory/backups/export", exportBackup)
	webserver.ApiGET("/inventory/reports/inventory.xlsx", exportInventoryReport)
}

func listBackups(c echo.Context) error {
	names, err := GetApp(c).Backup().Snapshots()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to list backups", err.Error())
	}
	return ok(c, names)
}

// runBackup archives the data folder if the store changed since the newest
// snapshot; an unchanged store answers with created=false.
func runBackup(c echo.Context) error {
	lang := reqLang(c)
	name, err := GetApp(c).RunBackupNow()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "BACKUP_FAILED", "Backup failed", err.Error())
	}
	return okMsg(c, i18n.T(lang, "backup_ok"), map[string]interface{}{
		"created": name != "",
		"name":    name,
	})
}

// exportBackup streams a fresh snapshot without touching the retention set.
func exportBackup(c echo.Context) error {
	appCtx := GetApp(c)
	data, err := appCtx.Backup().ExportSnapshot()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "BACKUP_FAILED", "Export failed", err.Error())
	}
	name := appCtx.Backup().ArchiveName()
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/zip", data)
}

func exportInventoryReport(c echo.Context) error {
	rows := GetApp(c).Store().All()

	f := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"ID", "Product", "Quantity", "Min Stock", "Cost", "Sell", "Last Updated"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ProductID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.MinStock)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.CostPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.SellPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.LastUpdated.Format(domain.TimeLayout))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="inventory.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
