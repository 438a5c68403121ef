package dao

import (
	"context"
	"regexp"
	"testing"

	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*egorm.Component, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestChannelTemplateDAO_GetByChannelCodeLocale(t *testing.T) {
	t.Parallel()

	t.Run("命中启用中的模板", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `channel_templates` WHERE channel = ? AND code = ? AND locale = ? AND active = ? ORDER BY `channel_templates`.`id` LIMIT ?")).
			WithArgs("email", "welcome", "en", true, 1).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "channel", "code", "locale", "subject", "body", "active", "ctime", "utime"}).
				AddRow(1, "email", "welcome", "en", "Welcome", "Hello {{name}}", true, 1000, 1000))

		data, err := dao.GetByChannelCodeLocale(context.Background(), "email", "welcome", "en")
		require.NoError(t, err)
		assert.Equal(t, int64(1), data.ID)
		assert.Equal(t, "Hello {{name}}", data.Body)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("记录不存在", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectQuery("SELECT .+ FROM `channel_templates`").
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := dao.GetByChannelCodeLocale(context.Background(), "email", "missing", "en")
		require.ErrorIs(t, err, errs.ErrTemplateNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChannelTemplateDAO_Create(t *testing.T) {
	t.Parallel()

	t.Run("创建成功", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `channel_templates`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		data, err := dao.Create(context.Background(), ChannelTemplate{
			Channel: "email",
			Code:    "welcome",
			Locale:  "en",
			Body:    "Hello {{name}}",
			Active:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), data.ID)
		assert.Positive(t, data.Ctime)
		assert.Equal(t, data.Ctime, data.Utime)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("唯一索引冲突", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `channel_templates`").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()

		_, err := dao.Create(context.Background(), ChannelTemplate{
			Channel: "email",
			Code:    "welcome",
			Locale:  "en",
			Body:    "Hello {{name}}",
			Active:  true,
		})
		require.ErrorIs(t, err, errs.ErrTemplateDuplicate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChannelTemplateDAO_Update(t *testing.T) {
	t.Parallel()

	t.Run("更新不存在的模板", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `channel_templates`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := dao.Update(context.Background(), ChannelTemplate{ID: 404, Body: "new"})
		require.ErrorIs(t, err, errs.ErrTemplateNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("停用成功", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dao := NewChannelTemplateDAO(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `channel_templates`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := dao.Deactivate(context.Background(), 1)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
