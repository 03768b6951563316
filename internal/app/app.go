package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/wildfireconsulting/quantix/config"
	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/backup"
	"github.com/wildfireconsulting/quantix/internal/ledger"
	"github.com/wildfireconsulting/quantix/internal/license"
	"github.com/wildfireconsulting/quantix/internal/stock"
	"github.com/wildfireconsulting/quantix/internal/store"
	"github.com/wildfireconsulting/quantix/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLicenseCacheTTL bounds how long a registry verdict is trusted
// before the license service is consulted again.
const DefaultLicenseCacheTTL = 5 * time.Minute

type Application struct {
	appConfig *config.AppConfig
	layout    assets.Layout

	recordStore *store.Store
	txLedger    *ledger.Logger
	stockSvc    *stock.Service
	backupMgr   *backup.Manager
	oracle      *license.CachedOracle
	machineID   string

	company *CompanyConfig
	bus     EventBus.Bus
	sched   *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ LedgerProvider    = (*Application)(nil)
	_ StockProvider     = (*Application)(nil)
	_ BackupProvider    = (*Application)(nil)
	_ LicenseProvider   = (*Application)(nil)
	_ CompanyProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Layout() assets.Layout {
	return a.layout
}

func (a *Application) Store() *store.Store {
	return a.recordStore
}

func (a *Application) Ledger() *ledger.Logger {
	return a.txLedger
}

func (a *Application) Stock() *stock.Service {
	return a.stockSvc
}

func (a *Application) Backup() *backup.Manager {
	return a.backupMgr
}

func (a *Application) Oracle() license.Oracle {
	return a.oracle
}

func (a *Application) MachineID() string {
	return a.machineID
}

// Init wires the whole application: logger, metrics, asset layout, record
// store with its load-time healing pass, company profile, license oracle,
// stock service and the cron jobs.
func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Configure output paths
	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.layout = assets.NewLayout(cfg.System.Workdir)
	if err := a.layout.EnsureDirs(); err != nil {
		return err
	}

	a.recordStore = store.New(a.layout)
	if err := a.recordStore.Load(); err != nil {
		return err
	}
	zap.S().Infof("inventory store loaded, %d records", a.recordStore.Len())

	a.txLedger = ledger.New(a.layout.LedgerFile())

	company, err := LoadCompanyConfig(a.layout.CompanyFile())
	if err != nil {
		zap.S().Errorf("company config unreadable: %v", err)
	}
	a.company = company

	a.machineID = license.MachineID(cfg.System.Workdir)
	a.oracle = license.NewCachedOracle(
		license.NewHTTPOracle(cfg.License.URL,
			time.Duration(cfg.License.Timeout)*time.Second, a.machineID),
		DefaultLicenseCacheTTL,
	)

	a.bus = EventBus.New()
	a.stockSvc = stock.NewService(a.recordStore, a.txLedger, a.layout,
		assets.NopGenerator{}, assets.NopNormalizer{}, a.bus)
	a.backupMgr = backup.New(a.layout, cfg.Inventory.BackupMax)

	a.subscribeEvents()

	// archive whatever changed since the last run before taking writes
	if name, err := a.backupMgr.AutoBackup(); err != nil {
		zap.S().Errorf("startup auto-backup failed: %v", err)
	} else if name != "" {
		zap.S().Infof("startup auto-backup created: %s", name)
	}

	a.initJob()
	return nil
}

// SetAssetTools swaps in real barcode and image tooling. The default wiring
// installed by Init is inert.
func (a *Application) SetAssetTools(gen assets.Generator, norm assets.Normalizer) {
	a.stockSvc = stock.NewService(a.recordStore, a.txLedger, a.layout, gen, norm, a.bus)
}

// ReloadStore re-reads the persisted table for the explicit refresh
// operation. Normal operation works against the in-memory table.
func (a *Application) ReloadStore() error {
	return a.recordStore.Load()
}

// RunBackupNow triggers an immediate change-driven backup and returns the
// archive name, or "" when the store has not changed.
func (a *Application) RunBackupNow() (string, error) {
	return a.backupMgr.AutoBackup()
}

// Company returns the stored company profile, or nil before first-run setup.
func (a *Application) Company() *CompanyConfig {
	return a.company
}

// SaveCompany persists the company profile and invalidates any cached
// license verdict for the previous key.
func (a *Application) SaveCompany(cc *CompanyConfig) error {
	if a.company != nil && a.company.LicenseKey != cc.LicenseKey {
		a.oracle.Invalidate(a.company.LicenseKey)
	}
	if err := SaveCompanyConfig(a.layout.CompanyFile(), cc); err != nil {
		return err
	}
	a.company = cc
	return nil
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
