package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// mysqlRecord is the gorm model of a stored record. Its fields mirror
// competition.Record in order so the two convert directly.
type mysqlRecord struct {
	URL               string `gorm:"column:url;type:text"`
	ID                string `gorm:"column:id;primaryKey;size:191"`
	Name              string `gorm:"column:name;type:text"`
	City              string `gorm:"column:city;type:text"`
	StartDate         string `gorm:"column:start_date;size:32"`
	AnnouncedAt       string `gorm:"column:announced_at;size:64"`
	EndDate           string `gorm:"column:end_date;size:32"`
	RegistrationOpen  string `gorm:"column:registration_open;type:text"`
	RegistrationClose string `gorm:"column:registration_close;type:text"`
	VenueAddress      string `gorm:"column:venue_address;type:text"`
	Organizer         string `gorm:"column:organizer;type:text"`
	Region            string `gorm:"column:region;size:8;index"`
	SubRegion         string `gorm:"column:sub_region;size:191"`
}

func toMySQLRecord(r competition.Record) mysqlRecord {
	return mysqlRecord(r)
}

func (m mysqlRecord) record() competition.Record {
	return competition.Record(m)
}

// MySQLStore keeps records in a MySQL table through gorm
type MySQLStore struct {
	db    *gorm.DB
	table string
}

// NewMySQLStore opens dsn and migrates table.
func NewMySQLStore(dsn, table string) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.Table(table).AutoMigrate(&mysqlRecord{}); err != nil {
		return nil, fmt.Errorf("migrating table %s: %w", table, err)
	}

	return &MySQLStore{db: db, table: table}, nil
}

// Put upserts rec with INSERT ... ON DUPLICATE KEY UPDATE.
func (s *MySQLStore) Put(ctx context.Context, rec competition.Record) error {
	row := toMySQLRecord(rec)
	err := s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all records ordered by ID.
func (s *MySQLStore) List(ctx context.Context) ([]competition.Record, error) {
	var rows []mysqlRecord
	if err := s.db.WithContext(ctx).Table(s.table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	records := make([]competition.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
