package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/whitebox/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	instanceRepo *InstanceRepository
	serviceRepo  *ServiceRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Private in-memory database per test
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(models.All()...)
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.instanceRepo = NewInstanceRepository(s.db)
	s.serviceRepo = NewServiceRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestInstance(host, vmState string) *models.Instance {
	instance := &models.Instance{
		UUID:        uuid.New().String(),
		Hostname:    "whitebox-instance",
		DisplayName: "whitebox-instance",
		Host:        host,
		VMState:     vmState,
		PowerState:  models.PowerStateRunning,
	}
	s.Require().NoError(s.db.Create(instance).Error)
	return instance
}

func (s *DBRepositoryTestSuite) softDelete(instance *models.Instance) {
	err := s.db.Model(instance).Updates(map[string]interface{}{
		"deleted":  instance.ID,
		"vm_state": models.VMStateDeleted,
	}).Error
	s.Require().NoError(err)
}

func (s *DBRepositoryTestSuite) createTestService(host, binary string, disabled bool) *models.Service {
	service := &models.Service{
		Host:     host,
		Binary:   binary,
		Topic:    "compute",
		Disabled: disabled,
	}
	s.Require().NoError(s.db.Create(service).Error)
	return service
}
