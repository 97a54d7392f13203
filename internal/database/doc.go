// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, settings seeding
//	├── chapters/        # Chapter CRUD and order_index maintenance
//	├── sources/         # Source metadata and catalog filters
//	├── versions/        # Append-only chapter snapshots
//	├── quotes/          # Quote bank
//	├── sessions/        # Writing session log
//	└── settings/        # Key/value settings
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./manuscript.db", log)
//
//	chaptersRepo := chapters.NewRepository(db.DB)
//	list, err := chaptersRepo.ListChapters(entities.BookVariantFull)
//
// Repositories translate gorm.ErrRecordNotFound into *entities.NotFoundError
// and wrap every other driver failure in *entities.StoreError.
//
// # Transactions
//
// Operations that touch several rows (create, delete, reorder, snapshot
// capture, settings upsert) run inside a single db.Transaction. The DSN opens
// immediate transactions, so a reader inside a transaction never observes a
// half-applied reorder.
package database
