package sqldb

// 基于MySQL的建表和批量插入

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// 数据库操作接口，存储层只依赖该接口，测试中用假实现替换
type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
}

// 持有连接池的MySQL实现
type Sqldb struct {
	options
	db *sql.DB
}

/*
无输入，输出一个error

按sqlURL打开连接池，限制最多4个连接，并通过Ping确认数据库可用
*/
func (d *Sqldb) OpenDB() error {
	db, err := sql.Open("mysql", d.sqlURL)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}
	d.db = db
	return nil
}

// 关闭连接池，未打开时直接返回
func (d *Sqldb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// 表不存在时按t的列定义建表
func (d *Sqldb) CreateTable(t TableData) error {
	sql, err := CreateTableSQL(t)
	if err != nil {
		return err
	}
	d.logger.Debug("create table", zap.String("sql", sql))
	_, err = d.db.Exec(sql)
	return err
}

// 将t.Args中的DataCount行数据一次性插入t.TableName
func (d *Sqldb) Insert(t TableData) error {
	sql, err := InsertSQL(t)
	if err != nil {
		return err
	}
	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err = d.db.Exec(sql, t.Args...)
	return err
}

/*
输入表定义，输出建表语句和一个error

生成CREATE TABLE IF NOT EXISTS语句，t.AutoKey为true时第一列为自增主键id；没有任何列时返回错误
*/
func CreateTableSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("column can not be empty")
	}
	sql := `CREATE TABLE IF NOT EXISTS ` + Quote(t.TableName) + " ("
	if t.AutoKey {
		sql += "`id` INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,"
	}
	for _, c := range t.ColumnNames {
		sql += Quote(c.Title) + ` ` + c.Type + `,`
	}
	sql = sql[:len(sql)-1] + `) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	return sql, nil
}

/*
输入表定义，输出插入语句和一个error

每个值对应一个占位符，多行数据合并成一条语句，如 INSERT INTO `t`(`a`,`b`) VALUES (?,?),(?,?);
参数个数必须等于行数乘以列数
*/
func InsertSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("empty column")
	}
	if t.DataCount <= 0 || len(t.Args) != t.DataCount*len(t.ColumnNames) {
		return "", errors.New("argument count does not match columns")
	}
	sql := `INSERT INTO ` + Quote(t.TableName) + `(`
	for _, v := range t.ColumnNames {
		sql += Quote(v.Title) + ","
	}
	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`
	return sql, nil
}

// 用反引号包裹标识符，使带空格的表头（如"Investment Title"）也能作为列名
func Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// 列定义
type Field struct {
	Title string
	Type  string
}

// 表定义及待插入的数据
type TableData struct {
	TableName   string
	ColumnNames []Field
	Args        []interface{}
	DataCount   int // Args中的数据行数
	AutoKey     bool
}

// 应用配置选项并打开数据库连接
func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	d := &Sqldb{}
	d.options = options
	if err := d.OpenDB(); err != nil {
		return nil, err
	}
	return d, nil
}
