package adminapi

import "github.com/wildfireconsulting/quantix/internal/webserver"

// InitRouter registers every admin api route. The license gate sits on the
// whole /api group; setup and license endpoints are exempted inside it.
func InitRouter() {
	webserver.ApiUse(licenseGate())

	registerSystemRoutes()
	registerProductRoutes()
	registerStockRoutes()
	registerDashboardRoutes()
	registerBackupRoutes()
}
