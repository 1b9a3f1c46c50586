package app

import (
	"fmt"
	"sync"

	phiRepository "github.com/clearcove/phicrypt/internal/phi/repository"
	phiService "github.com/clearcove/phicrypt/internal/phi/service"
	phiUseCase "github.com/clearcove/phicrypt/internal/phi/usecase"
	recordsRepository "github.com/clearcove/phicrypt/internal/records/repository"
)

// phiComponents groups the lazily initialized PHI encryption dependencies.
type phiComponents struct {
	keySource       phiService.KeySource
	keyManager      *phiService.KeyManagerService
	encryptor       phiService.Encryptor
	recordStore     phiUseCase.RecordStore
	rotationRepo    phiUseCase.RotationRecordRepository
	phiUseCase      phiUseCase.PHIUseCase
	rotationUseCase phiUseCase.RotationUseCase
	healthUseCase   phiUseCase.HealthUseCase

	keySourceInit       sync.Once
	keyManagerInit      sync.Once
	encryptorInit       sync.Once
	recordStoreInit     sync.Once
	rotationRepoInit    sync.Once
	phiUseCaseInit      sync.Once
	rotationUseCaseInit sync.Once
	healthUseCaseInit   sync.Once
}

// KeySource returns the key source delivering the PHI encryption key.
// A KMS source is used when a key URI and wrapped key ciphertext are
// configured; otherwise the key is read directly from the environment.
func (c *Container) KeySource() (phiService.KeySource, error) {
	c.phi.keySourceInit.Do(func() {
		if c.config.KMSKeyURI != "" && c.config.PHIEncryptionKeyCiphertext != "" {
			c.phi.keySource = phiService.NewKMSKeySource(
				phiService.NewKMSService(),
				c.config.KMSKeyURI,
				c.config.PHIEncryptionKeyCiphertext,
			)
			return
		}
		c.phi.keySource = phiService.NewEnvKeySource(c.config.PHIEncryptionKey)
	})
	return c.phi.keySource, nil
}

// KeyManager returns the key manager holding the active PHI encryption key.
func (c *Container) KeyManager() (*phiService.KeyManagerService, error) {
	var err error
	c.phi.keyManagerInit.Do(func() {
		var source phiService.KeySource
		source, err = c.KeySource()
		if err != nil {
			c.initErrors["keyManager"] = err
			return
		}
		c.phi.keyManager = phiService.NewKeyManager(source, c.config.Environment)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyManager"]; exists {
		return nil, storedErr
	}
	return c.phi.keyManager, nil
}

// Encryptor returns the field encryption service.
func (c *Container) Encryptor() (phiService.Encryptor, error) {
	var err error
	c.phi.encryptorInit.Do(func() {
		var keyManager *phiService.KeyManagerService
		keyManager, err = c.KeyManager()
		if err != nil {
			c.initErrors["encryptor"] = err
			return
		}
		c.phi.encryptor = phiService.NewEncryptionService(keyManager)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptor"]; exists {
		return nil, storedErr
	}
	return c.phi.encryptor, nil
}

// RecordStore returns the store for tables holding encrypted PHI columns.
func (c *Container) RecordStore() (phiUseCase.RecordStore, error) {
	var err error
	c.phi.recordStoreInit.Do(func() {
		c.phi.recordStore, err = c.initRecordStore()
		if err != nil {
			c.initErrors["recordStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordStore"]; exists {
		return nil, storedErr
	}
	return c.phi.recordStore, nil
}

// RotationRecordRepository returns the rotation audit record repository.
func (c *Container) RotationRecordRepository() (phiUseCase.RotationRecordRepository, error) {
	var err error
	c.phi.rotationRepoInit.Do(func() {
		c.phi.rotationRepo, err = c.initRotationRecordRepository()
		if err != nil {
			c.initErrors["rotationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationRepo"]; exists {
		return nil, storedErr
	}
	return c.phi.rotationRepo, nil
}

// PHIUseCase returns the field protection use case, wrapped with metrics.
func (c *Container) PHIUseCase() (phiUseCase.PHIUseCase, error) {
	var err error
	c.phi.phiUseCaseInit.Do(func() {
		c.phi.phiUseCase, err = c.initPHIUseCase()
		if err != nil {
			c.initErrors["phiUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["phiUseCase"]; exists {
		return nil, storedErr
	}
	return c.phi.phiUseCase, nil
}

// RotationUseCase returns the key rotation use case, wrapped with metrics.
func (c *Container) RotationUseCase() (phiUseCase.RotationUseCase, error) {
	var err error
	c.phi.rotationUseCaseInit.Do(func() {
		c.phi.rotationUseCase, err = c.initRotationUseCase()
		if err != nil {
			c.initErrors["rotationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationUseCase"]; exists {
		return nil, storedErr
	}
	return c.phi.rotationUseCase, nil
}

// HealthUseCase returns the encryption subsystem self-check use case.
func (c *Container) HealthUseCase() (phiUseCase.HealthUseCase, error) {
	var err error
	c.phi.healthUseCaseInit.Do(func() {
		c.phi.healthUseCase, err = c.initHealthUseCase()
		if err != nil {
			c.initErrors["healthUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["healthUseCase"]; exists {
		return nil, storedErr
	}
	return c.phi.healthUseCase, nil
}

// initRecordStore creates the record store for the configured database driver.
func (c *Container) initRecordStore() (phiUseCase.RecordStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record store: %w", err)
	}

	// Select the appropriate store based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return recordsRepository.NewMySQLRecordStore(db), nil
	case "postgres":
		return recordsRepository.NewPostgreSQLRecordStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRotationRecordRepository creates the rotation audit repository for the
// configured database driver.
func (c *Container) initRotationRecordRepository() (phiUseCase.RotationRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for rotation repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return phiRepository.NewMySQLRotationRecordRepository(db), nil
	case "postgres":
		return phiRepository.NewPostgreSQLRotationRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPHIUseCase creates the field protection use case with its dependencies.
func (c *Container) initPHIUseCase() (phiUseCase.PHIUseCase, error) {
	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for phi use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for phi use case: %w", err)
	}

	useCase := phiUseCase.NewPHIUseCase(encryptor)
	return phiUseCase.NewPHIUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initRotationUseCase creates the key rotation use case with its dependencies.
func (c *Container) initRotationUseCase() (phiUseCase.RotationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for rotation use case: %w", err)
	}

	recordStore, err := c.RecordStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get record store for rotation use case: %w", err)
	}

	rotationRepo, err := c.RotationRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation repository for rotation use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for rotation use case: %w", err)
	}

	useCase := phiUseCase.NewRotationUseCase(
		txManager,
		recordStore,
		rotationRepo,
		c.config.RotationBatchSize,
		c.Logger(),
	)
	return phiUseCase.NewRotationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHealthUseCase creates the self-check use case with its dependencies.
func (c *Container) initHealthUseCase() (phiUseCase.HealthUseCase, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for health use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for health use case: %w", err)
	}

	return phiUseCase.NewHealthUseCase(keyManager, encryptor), nil
}
