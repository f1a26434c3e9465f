package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agendaku_backend/internals/configs"
	appointmentModel "agendaku_backend/internals/features/scheduling/appointments/model"
	clientModel "agendaku_backend/internals/features/scheduling/clients/model"
	seriesModel "agendaku_backend/internals/features/scheduling/series/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.DSN(),
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	configs.DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// query paling sering: grid harian per profesional
		DB.Exec("SELECT 1 FROM appointments WHERE appointment_professional_id IS NULL LIMIT 1")
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database belum terkoneksi")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

/* =========================================================
   MIGRATION
========================================================= */

// dua appointment aktif milik profesional yang sama tidak boleh overlap di tanggal yang sama
const noOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				appointment_professional_id WITH =,
				appointment_date WITH =,
				int4range(appointment_start_min, appointment_end_min) WITH &&
			)
			WHERE (appointment_deleted_at IS NULL AND appointment_status <> 'canceled');
	END IF;
END
$$;`

const rangeCheckConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_valid_range'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_valid_range
			CHECK (appointment_start_min >= 0 AND appointment_end_min <= 1440 AND appointment_start_min < appointment_end_min);
	END IF;
END
$$;`

// Migrate aman dijalankan berulang
func Migrate(db *gorm.DB) error {
	log.Println("[MIGRATE] btree_gist extension...")
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("create extension btree_gist: %w", err)
	}

	log.Println("[MIGRATE] AutoMigrate tabel scheduling...")
	if err := db.AutoMigrate(
		&clientModel.TagModel{},
		&clientModel.ClientModel{},
		&seriesModel.SeriesModel{},
		&appointmentModel.AppointmentModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for name, stmt := range map[string]string{
		"appointments_valid_range": rangeCheckConstraint,
		"appointments_no_overlap":  noOverlapConstraint,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", name, err)
		}
	}

	log.Println("✅ Migrasi selesai.")
	return nil
}
