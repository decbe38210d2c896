package sqlstorage

// 将投资表镜像到MySQL：每个机构一张表，数据先缓存再批量插入

import (
	"time"

	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/sqldb"
	"go.uber.org/zap"
)

// 每行额外记录的写入时间列
const timeColumn = "Time"

// 带缓冲的SQL存储
type SqlStore struct {
	dataDocker []*dashboard.Investment // 等待Flush的数据
	table      string                  // 缓存数据所属的表
	columns    map[string][]string     // 已创建的表及其列
	db         sqldb.DBer
	now        func() time.Time
	options
}

// 应用配置选项，连接数据库并返回存储实例
func New(opts ...Option) (*SqlStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	db, err := sqldb.New(
		sqldb.WithConnURL(options.sqlURL),
		sqldb.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}
	return newStore(db, options), nil
}

func newStore(db sqldb.DBer, options options) *SqlStore {
	if options.BatchCount <= 0 {
		options.BatchCount = 1
	}
	return &SqlStore{
		columns: make(map[string][]string),
		db:      db,
		now:     time.Now,
		options: options,
	}
}

/*
输入表名和若干行数据，输出一个error

第一次遇到某张表时按这些行的列建表；切换到另一张表前先把上一张表的缓存写入数据库；缓存满BatchCount行就写入一次
*/
func (s *SqlStore) Save(table string, rows ...*dashboard.Investment) error {
	if table != s.table {
		if err := s.Flush(); err != nil {
			return err
		}
		s.table = table
	}
	if _, ok := s.columns[table]; !ok {
		cols := dashboard.Columns(rows)
		if err := s.db.CreateTable(sqldb.TableData{
			TableName:   table,
			ColumnNames: fields(cols),
			AutoKey:     true,
		}); err != nil {
			s.logger.Error("create table failed", zap.String("table", table), zap.Error(err))
			return err
		}
		s.columns[table] = cols
	}
	for _, r := range rows {
		if len(s.dataDocker) >= s.BatchCount {
			if err := s.Flush(); err != nil {
				return err
			}
		}
		s.dataDocker = append(s.dataDocker, r)
	}
	return nil
}

// 将缓存的数据一次性插入数据库，无论成功与否都会清空缓存
func (s *SqlStore) Flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}
	defer func() {
		s.dataDocker = nil
	}()

	cols := s.columns[s.table]
	stamp := s.now().Format("2006-01-02 15:04:05")
	args := make([]interface{}, 0, len(s.dataDocker)*(len(cols)+1))
	for _, r := range s.dataDocker {
		for _, c := range cols {
			args = append(args, r.Get(c))
		}
		args = append(args, stamp)
	}
	err := s.db.Insert(sqldb.TableData{
		TableName:   s.table,
		ColumnNames: fields(cols),
		Args:        args,
		DataCount:   len(s.dataDocker),
	})
	if err != nil {
		s.logger.Error("insert data failed", zap.String("table", s.table), zap.Error(err))
		return err
	}
	s.logger.Debug("rows mirrored", zap.String("table", s.table), zap.Int("count", len(s.dataDocker)))
	return nil
}

// 写入剩余的缓存并关闭数据库连接
func (s *SqlStore) Close() error {
	err := s.Flush()
	if c, ok := s.db.(interface{ Close() error }); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// 表头对应MEDIUMTEXT列，最后追加写入时间列
func fields(cols []string) []sqldb.Field {
	out := make([]sqldb.Field, 0, len(cols)+1)
	for _, c := range cols {
		out = append(out, sqldb.Field{Title: c, Type: "MEDIUMTEXT"})
	}
	return append(out, sqldb.Field{Title: timeColumn, Type: "VARCHAR(255)"})
}
