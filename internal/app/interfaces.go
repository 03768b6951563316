package app

import (
	"github.com/robfig/cron/v3"
	"github.com/wildfireconsulting/quantix/config"
	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/backup"
	"github.com/wildfireconsulting/quantix/internal/ledger"
	"github.com/wildfireconsulting/quantix/internal/license"
	"github.com/wildfireconsulting/quantix/internal/stock"
	"github.com/wildfireconsulting/quantix/internal/store"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides access to the inventory record store
type StoreProvider interface {
	Layout() assets.Layout
	Store() *store.Store
}

// LedgerProvider provides access to the transaction ledger
type LedgerProvider interface {
	Ledger() *ledger.Logger
}

// StockProvider provides the mutation service
type StockProvider interface {
	Stock() *stock.Service
}

// BackupProvider provides the backup manager
type BackupProvider interface {
	Backup() *backup.Manager
}

// LicenseProvider provides the license oracle and this host's identity
type LicenseProvider interface {
	Oracle() license.Oracle
	MachineID() string
}

// CompanyProvider provides the company profile stored alongside the data
type CompanyProvider interface {
	Company() *CompanyConfig
	SaveCompany(cc *CompanyConfig) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	StoreProvider
	LedgerProvider
	StockProvider
	BackupProvider
	LicenseProvider
	CompanyProvider
	SchedulerProvider

	// ReloadStore discards the in-memory table and re-reads the persisted one
	ReloadStore() error
	// RunBackupNow triggers a change-driven backup immediately
	RunBackupNow() (string, error)
}
