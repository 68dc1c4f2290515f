package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/parkgazer/internal/apperr"
	"github.com/langchou/parkgazer/internal/models"
)

// 검색 결과 상한. 전체 데이터셋이 수만 건 수준이므로 충분하다.
const searchLimit = 10000

// 주차장 테이블 공통 SELECT 컬럼
const parkingLotColumns = `
	id, name, address, latitude, longitude,
	total_parking_spaces, parking_type_name, phone,
	paid_free_type, paid_free_type_name,
	basic_parking_fee, basic_parking_time,
	additional_unit_fee, additional_unit_time,
	daily_max_fee, monthly_pass_fee,
	weekday_start_time, weekday_end_time,
	weekend_start_time, weekend_end_time,
	holiday_start_time, holiday_end_time,
	created_at, updated_at
`

// ParkingLotRepository 주차장 데이터 저장소
type ParkingLotRepository struct {
	db *DB
}

// NewParkingLotRepository 주차장 저장소 생성
func NewParkingLotRepository(db *DB) *ParkingLotRepository {
	return &ParkingLotRepository{db: db}
}

// Search 이름·주소로 주차장 검색. search가 비어 있으면 전체 반환
func (r *ParkingLotRepository) Search(ctx context.Context, search string) ([]models.ParkingLot, error) {
	query := `
		SELECT ` + parkingLotColumns + `
		FROM parking_lots
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, search, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search parking lots: %w", err)
	}
	defer rows.Close()

	var lots []models.ParkingLot
	for rows.Next() {
		lot, err := scanParkingLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parking lot: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parking lots: %w", err)
	}

	return lots, nil
}

// GetByID 주차장 단건 조회
func (r *ParkingLotRepository) GetByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	query := `
		SELECT ` + parkingLotColumns + `
		FROM parking_lots WHERE id = $1
	`
	lot, err := scanParkingLot(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Errorf(apperr.KindNotFound, "repository.GetByID", "parking lot %d not found", id)
		}
		return nil, fmt.Errorf("get parking lot by id: %w", err)
	}
	return &lot, nil
}

// ReplaceAll 전체 데이터를 새 데이터셋으로 교체. 단일 트랜잭션으로 실행
func (r *ParkingLotRepository) ReplaceAll(ctx context.Context, lots []models.ParkingLot) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM parking_lots`); err != nil {
		return fmt.Errorf("clear parking lots: %w", err)
	}

	insert := `
		INSERT INTO parking_lots (
			name, address, latitude, longitude,
			total_parking_spaces, parking_type_name, phone,
			paid_free_type, paid_free_type_name,
			basic_parking_fee, basic_parking_time,
			additional_unit_fee, additional_unit_time,
			daily_max_fee, monthly_pass_fee,
			weekday_start_time, weekday_end_time,
			weekend_start_time, weekend_end_time,
			holiday_start_time, holiday_end_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	batch := &pgx.Batch{}
	for _, lot := range lots {
		batch.Queue(insert,
			lot.Name,
			lot.Address,
			lot.Latitude,
			lot.Longitude,
			lot.TotalParkingSpaces,
			lot.ParkingTypeName,
			lot.Phone,
			lot.PaidFreeType,
			lot.PaidFreeTypeName,
			lot.BasicParkingFee,
			lot.BasicParkingTime,
			lot.AdditionalUnitFee,
			lot.AdditionalUnitTime,
			lot.DailyMaxFee,
			lot.MonthlyPassFee,
			lot.WeekdayStartTime,
			lot.WeekdayEndTime,
			lot.WeekendStartTime,
			lot.WeekendEndTime,
			lot.HolidayStartTime,
			lot.HolidayEndTime,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range lots {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert parking lot: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	return nil
}

// Count 전체 주차장 수
func (r *ParkingLotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM parking_lots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count parking lots: %w", err)
	}
	return count, nil
}

func scanParkingLot(row pgx.Row) (models.ParkingLot, error) {
	var lot models.ParkingLot
	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Address,
		&lot.Latitude,
		&lot.Longitude,
		&lot.TotalParkingSpaces,
		&lot.ParkingTypeName,
		&lot.Phone,
		&lot.PaidFreeType,
		&lot.PaidFreeTypeName,
		&lot.BasicParkingFee,
		&lot.BasicParkingTime,
		&lot.AdditionalUnitFee,
		&lot.AdditionalUnitTime,
		&lot.DailyMaxFee,
		&lot.MonthlyPassFee,
		&lot.WeekdayStartTime,
		&lot.WeekdayEndTime,
		&lot.WeekendStartTime,
		&lot.WeekendEndTime,
		&lot.HolidayStartTime,
		&lot.HolidayEndTime,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	return lot, err
}
