package postgres_test

import (
	"context"
	"testing"

	store "kds/internal/adapters/out/postgres"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises transaction handling against an
// in-memory SQLite database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	db      *gorm.DB
	factory *store.GormUnitOfWorkFactory
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	db, err := store.Open(store.DriverSQLite, "file::memory:")
	suite.Require().NoError(err)
	suite.Require().NoError(store.Migrate(db))
	suite.db = db
	suite.factory = store.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("DELETE FROM orders").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersists() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := suite.newOrder("GLO-001")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]kernel.UUID{o.ID()}, uow.(*store.GormUnitOfWork).TrackedIDs())
	got, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal("GLO-001", got.ExternalID().String())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscards() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := suite.newOrder("GLO-002")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(uow.(*store.GormUnitOfWork).TrackedIDs())
	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CountSeesOwnWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.OrderRepository()
	suite.Require().NoError(repo.Add(ctx, suite.newOrder("GLO-003")))
	count, err := repo.Count(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPing() {
	suite.Require().NoError(store.Ping(context.Background(), suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOpen_UnsupportedDriver() {
	_, err := store.Open("mysql", "whatever")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "unsupported database driver")
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(externalID string) *order.Order {
	extID, err := order.NewExternalID(externalID)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), extID, "Ana", nil, order.Pending)
	suite.Require().NoError(err)
	return o
}
