package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/mediplace/lab-api/internal/repository"
)

type labOrderRepository struct {
	BaseRepository
}

type labPrescriptionRepository struct {
	db *sqlx.DB
}

type labResultRepository struct {
	db *sqlx.DB
}

type labTestRepository struct {
	db *sqlx.DB
}

type directoryRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	BaseRepository
}

func NewLabOrderRepository(db *sqlx.DB) repository.LabOrderRepository {
	return &labOrderRepository{NewBaseRepository(db)}
}

func NewLabPrescriptionRepository(db *sqlx.DB) repository.LabPrescriptionRepository {
	return &labPrescriptionRepository{db: db}
}

func NewLabResultRepository(db *sqlx.DB) repository.LabResultRepository {
	return &labResultRepository{db: db}
}

func NewLabTestRepository(db *sqlx.DB) repository.LabTestRepository {
	return &labTestRepository{db: db}
}

func NewDirectoryRepository(db *sqlx.DB) repository.DirectoryRepository {
	return &directoryRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
