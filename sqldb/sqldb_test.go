package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	_, err := CreateTableSQL(TableData{TableName: "t"})
	assert.Error(t, err)

	sql, err := CreateTableSQL(TableData{
		TableName:   "Department of Commerce",
		ColumnNames: []Field{{Title: "UII", Type: "MEDIUMTEXT"}, {Title: "Investment Title", Type: "MEDIUMTEXT"}},
		AutoKey:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `Department of Commerce` ("+
		"`id` INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,"+
		"`UII` MEDIUMTEXT,`Investment Title` MEDIUMTEXT) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;", sql)
}

func TestInsertSQL(t *testing.T) {
	tests := []struct {
		name    string
		data    TableData
		want    string
		wantErr bool
	}{
		{name: "no columns", data: TableData{TableName: "t"}, wantErr: true},
		{
			name:    "args mismatch",
			data:    TableData{TableName: "t", ColumnNames: []Field{{Title: "a"}}, Args: []interface{}{"1", "2"}, DataCount: 1},
			wantErr: true,
		},
		{
			name: "two rows",
			data: TableData{
				TableName:   "t",
				ColumnNames: []Field{{Title: "a"}, {Title: "b`c"}},
				Args:        []interface{}{"1", "2", "3", "4"},
				DataCount:   2,
			},
			want: "INSERT INTO `t`(`a`,`b``c`) VALUES (?,?),(?,?);",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InsertSQL(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
