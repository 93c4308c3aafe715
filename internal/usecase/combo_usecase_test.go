package usecase_test

import (
	"context"
	"testing"
	"time"

	"takeout/internal/domain/model"
	"takeout/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type comboFixture struct {
	store *memStore
	cache *CacheMock
	uc    *usecase.ComboUsecase
}

func newComboFixture() *comboFixture {
	f := &comboFixture{store: newMemStore(), cache: new(CacheMock)}
	s := f.store
	f.uc = usecase.NewComboUsecase(memTx{s}, comboRepo{s}, comboDishRepo{s}, dishRepo{s}, f.cache, time.Hour, fixedClock{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	return f
}

func comboInput(dishIDs ...int64) usecase.ComboInput {
	in := usecase.ComboInput{Name: "family set", CategoryID: 9, Price: decimal.RequireFromString("58.00")}
	for _, id := range dishIDs {
		in.Dishes = append(in.Dishes, usecase.ComboDishInput{DishID: id, Copies: 2})
	}
	return in
}

func TestComboUsecase_Save_And_Get(t *testing.T) {
	f := newComboFixture()
	d := f.store.putDish(model.Dish{Name: "rice", Price: decimal.RequireFromString("3.50"), Status: model.StatusDisabled})
	f.cache.On("DeletePattern", mock.Anything, "combo_*").Return(nil).Once()

	id, err := f.uc.Save(context.Background(), 1, comboInput(d.ID))
	require.NoError(t, err)

	got, err := f.uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "family set", got.Name)
	assert.Equal(t, model.StatusDisabled, got.Status)
	require.Len(t, got.Dishes, 1)
	assert.Equal(t, 2, got.Dishes[0].Copies)
	// 名前と価格は料理の行から
	assert.Equal(t, "rice", got.Dishes[0].Name)
	assert.True(t, decimal.RequireFromString("3.50").Equal(got.Dishes[0].Price))
	f.cache.AssertExpectations(t)
}

func TestComboUsecase_Save_MissingDish(t *testing.T) {
	f := newComboFixture()
	d := f.store.putDish(model.Dish{Name: "rice", Status: model.StatusDisabled})

	_, err := f.uc.Save(context.Background(), 1, comboInput(d.ID, 404))
	assert.ErrorIs(t, err, usecase.ErrDishNotFound)

	page, err := f.uc.Page(context.Background(), usecase.ComboPageInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	f.cache.AssertNotCalled(t, "DeletePattern", mock.Anything, mock.Anything)
}

func TestComboUsecase_Update_MissingDish(t *testing.T) {
	f := newComboFixture()
	a := f.store.putDish(model.Dish{Name: "a", Status: model.StatusEnabled})
	c := f.store.putCombo(model.ComboMeal{Name: "set", Status: model.StatusDisabled}, model.ComboMealDish{DishID: a.ID, Copies: 1})

	err := f.uc.Update(context.Background(), 3, c.ID, comboInput(404))
	assert.ErrorIs(t, err, usecase.ErrDishNotFound)

	links, _ := comboDishRepo{f.store}.ListByComboID(context.Background(), c.ID)
	require.Len(t, links, 1)
	assert.Equal(t, a.ID, links[0].DishID)
}

func TestComboUsecase_Save_Validation(t *testing.T) {
	f := newComboFixture()

	_, err := f.uc.Save(context.Background(), 1, comboInput())
	assert.ErrorContains(t, err, "at least one dish")

	in := comboInput(1)
	in.Dishes[0].Copies = 0
	_, err = f.uc.Save(context.Background(), 1, in)
	assert.ErrorContains(t, err, "invalid combo dish")
}

func TestComboUsecase_Save_EnabledWithDisabledDish(t *testing.T) {
	f := newComboFixture()
	d := f.store.putDish(model.Dish{Name: "rice", Status: model.StatusDisabled})

	in := comboInput(d.ID)
	in.Status = model.StatusEnabled
	_, err := f.uc.Save(context.Background(), 1, in)
	assert.ErrorIs(t, err, usecase.ErrComboEnableFailed)
}

func TestComboUsecase_StartOrStop_EnableFailed(t *testing.T) {
	f := newComboFixture()
	on := f.store.putDish(model.Dish{Name: "rice", Status: model.StatusEnabled})
	off := f.store.putDish(model.Dish{Name: "soup", Status: model.StatusDisabled})
	c := f.store.putCombo(model.ComboMeal{Name: "set", Status: model.StatusDisabled},
		model.ComboMealDish{DishID: on.ID, Copies: 1},
		model.ComboMealDish{DishID: off.ID, Copies: 1},
	)

	err := f.uc.StartOrStop(context.Background(), 1, c.ID, model.StatusEnabled)
	assert.ErrorIs(t, err, usecase.ErrComboEnableFailed)

	got, _ := comboRepo{f.store}.FindByID(context.Background(), c.ID)
	assert.Equal(t, model.StatusDisabled, got.Status)
	assert.Empty(t, f.store.audits())
	f.cache.AssertNotCalled(t, "DeletePattern", mock.Anything, mock.Anything)
}

func TestComboUsecase_StartOrStop_Enable(t *testing.T) {
	f := newComboFixture()
	on := f.store.putDish(model.Dish{Name: "rice", Status: model.StatusEnabled})
	c := f.store.putCombo(model.ComboMeal{Name: "set", Status: model.StatusDisabled}, model.ComboMealDish{DishID: on.ID, Copies: 1})
	f.cache.On("DeletePattern", mock.Anything, "combo_*").Return(nil).Once()

	require.NoError(t, f.uc.StartOrStop(context.Background(), 1, c.ID, model.StatusEnabled))

	got, _ := comboRepo{f.store}.FindByID(context.Background(), c.ID)
	assert.Equal(t, model.StatusEnabled, got.Status)
	logs := f.store.audits()
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditResourceCombo, logs[0].ResourceType)
	f.cache.AssertExpectations(t)
}

func TestComboUsecase_Update_ReplacesDishes(t *testing.T) {
	f := newComboFixture()
	a := f.store.putDish(model.Dish{Name: "a", Status: model.StatusEnabled})
	b := f.store.putDish(model.Dish{Name: "b", Status: model.StatusEnabled})
	c := f.store.putCombo(model.ComboMeal{Name: "set", Status: model.StatusEnabled}, model.ComboMealDish{DishID: a.ID, Copies: 1})
	f.cache.On("DeletePattern", mock.Anything, "combo_*").Return(nil)

	require.NoError(t, f.uc.Update(context.Background(), 3, c.ID, comboInput(b.ID)))

	got, err := f.uc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, got.Dishes, 1)
	assert.Equal(t, b.ID, got.Dishes[0].DishID)
	assert.Equal(t, int64(3), got.UpdateUser)
}

func TestComboUsecase_Update_OnSaleRejectsDisabledDish(t *testing.T) {
	f := newComboFixture()
	a := f.store.putDish(model.Dish{Name: "a", Status: model.StatusEnabled})
	off := f.store.putDish(model.Dish{Name: "off", Status: model.StatusDisabled})
	c := f.store.putCombo(model.ComboMeal{Name: "set", Status: model.StatusEnabled}, model.ComboMealDish{DishID: a.ID, Copies: 1})

	err := f.uc.Update(context.Background(), 3, c.ID, comboInput(off.ID))
	assert.ErrorIs(t, err, usecase.ErrComboEnableFailed)

	links, _ := comboDishRepo{f.store}.ListByComboID(context.Background(), c.ID)
	require.Len(t, links, 1)
	assert.Equal(t, a.ID, links[0].DishID)
}

func TestComboUsecase_DeleteBatch(t *testing.T) {
	f := newComboFixture()
	off := f.store.putCombo(model.ComboMeal{Name: "off", Status: model.StatusDisabled}, model.ComboMealDish{DishID: 1, Copies: 1})
	on := f.store.putCombo(model.ComboMeal{Name: "on", Status: model.StatusEnabled})

	err := f.uc.DeleteBatch(context.Background(), 1, []int64{off.ID, on.ID})
	assert.ErrorIs(t, err, usecase.ErrComboOnSale)
	_, err = f.uc.Get(context.Background(), off.ID)
	assert.NoError(t, err)

	err = f.uc.DeleteBatch(context.Background(), 1, []int64{off.ID, -1})
	assert.ErrorContains(t, err, "invalid id")

	f.cache.On("DeletePattern", mock.Anything, "combo_*").Return(nil).Once()
	require.NoError(t, f.uc.DeleteBatch(context.Background(), 1, []int64{off.ID}))
	_, err = f.uc.Get(context.Background(), off.ID)
	assert.ErrorIs(t, err, usecase.ErrComboNotFound)
	links, _ := comboDishRepo{f.store}.ListByComboID(context.Background(), off.ID)
	assert.Empty(t, links)
}

func TestComboUsecase_ListForCustomer_ReadThrough(t *testing.T) {
	f := newComboFixture()
	f.store.putCombo(model.ComboMeal{Name: "on", CategoryID: 4, Status: model.StatusEnabled})
	f.store.putCombo(model.ComboMeal{Name: "off", CategoryID: 4, Status: model.StatusDisabled})
	f.cache.On("GetJSON", mock.Anything, "combo_4", mock.Anything).Return(false, nil).Once()
	f.cache.On("SetJSON", mock.Anything, "combo_4", mock.Anything, time.Hour).Return(nil).Once()

	out, err := f.uc.ListForCustomer(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "on", out[0].Name)
	f.cache.AssertExpectations(t)
}

func TestComboUsecase_DishItems(t *testing.T) {
	f := newComboFixture()
	d := f.store.putDish(model.Dish{Name: "rice", Image: "rice.png", Description: "white rice"})
	c := f.store.putCombo(model.ComboMeal{Name: "set"}, model.ComboMealDish{DishID: d.ID, Name: "rice", Copies: 2})

	out, err := f.uc.DishItems(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, []usecase.ComboDishItem{{Name: "rice", Copies: 2, Image: "rice.png", Description: "white rice"}}, out)
}
