package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 데이터베이스 연결 풀 래퍼
type DB struct {
	Pool *pgxpool.Pool
}

// New 데이터베이스 연결 생성
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 연결 풀 설정
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 연결 확인
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 연결 풀 종료
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 데이터베이스 마이그레이션 실행
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateParkingLots,
		migrationAddMaxFeeColumns,
		migrationAddSearchIndexes,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 데이터베이스 마이그레이션 SQL
const migrationCreateParkingLots = `
CREATE TABLE IF NOT EXISTS parking_lots (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address TEXT,

    -- 위치
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,

    -- 기본 정보
    total_parking_spaces INT,
    parking_type_name VARCHAR(50),
    phone VARCHAR(50),

    -- 요금
    paid_free_type VARCHAR(20),
    paid_free_type_name VARCHAR(20),
    basic_parking_fee INT,
    basic_parking_time INT,
    additional_unit_fee INT,
    additional_unit_time INT,

    -- 운영 시간 (HHMM)
    weekday_start_time VARCHAR(4),
    weekday_end_time VARCHAR(4),
    weekend_start_time VARCHAR(4),
    weekend_end_time VARCHAR(4),
    holiday_start_time VARCHAR(4),
    holiday_end_time VARCHAR(4),

    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_parking_lots_name ON parking_lots(name);
`

// 일 최대 요금·월 정기권 요금 필드 추가
const migrationAddMaxFeeColumns = `
ALTER TABLE parking_lots ADD COLUMN IF NOT EXISTS daily_max_fee INT;
ALTER TABLE parking_lots ADD COLUMN IF NOT EXISTS monthly_pass_fee INT;
`

// 검색·필터용 인덱스 추가
const migrationAddSearchIndexes = `
CREATE INDEX IF NOT EXISTS idx_parking_lots_address ON parking_lots(address);
CREATE INDEX IF NOT EXISTS idx_parking_lots_parking_type ON parking_lots(parking_type_name);
`
