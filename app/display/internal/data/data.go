package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/storage"
)

// Data 数据层资源，未配置数据库时 store 为 nil
type Data struct {
	store *storage.Storage
}

// NewData 打开报告存储
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Warn("database not configured, reports are kept in memory only")
		return &Data{}, func() {}, nil
	}

	driver := c.Database.Driver
	if driver == "" {
		driver = "postgres"
	}
	store, err := storage.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}

// Store 返回报告存储，可能为 nil
func (d *Data) Store() *storage.Storage {
	return d.store
}
