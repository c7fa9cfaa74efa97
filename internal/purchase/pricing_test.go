package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/models"
)

func testTypes() []models.TicketType {
	return []models.TicketType{
		{ID: "tt-vip", Name: "VIP", Price: 5000, MaxPerOrder: 4},
		{ID: "tt-gen", Name: "General", Price: 3000, MaxPerOrder: 10},
		{ID: "tt-free", Name: "Free", Price: 0, MaxPerOrder: 2},
	}
}

func TestPriceSelectionsSubtotal(t *testing.T) {
	validated, subtotal, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 2},
		{TicketTypeID: "tt-gen", Quantity: 1},
	})
	assert.NoError(t, err)
	assert.Len(t, validated, 2)
	assert.Equal(t, 13000.0, subtotal)
}

func TestPriceSelectionsDropsZeroQuantity(t *testing.T) {
	validated, subtotal, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 2},
		{TicketTypeID: "tt-gen", Quantity: 0},
	})
	assert.NoError(t, err)
	assert.Len(t, validated, 1)
	assert.Equal(t, "tt-vip", validated[0].TicketTypeID)
	assert.Equal(t, 10000.0, subtotal)
}

func TestPriceSelectionsMergesDuplicateLines(t *testing.T) {
	validated, subtotal, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 2},
		{TicketTypeID: "tt-gen", Quantity: 1},
		{TicketTypeID: "tt-vip", Quantity: 2},
	})
	assert.NoError(t, err)
	assert.Len(t, validated, 2)
	assert.Equal(t, "tt-vip", validated[0].TicketTypeID)
	assert.Equal(t, 4, validated[0].Quantity)
	assert.Equal(t, 23000.0, subtotal)
}

func TestPriceSelectionsDuplicateLinesRespectPerOrderLimit(t *testing.T) {
	// Each line is within the limit of 4 on its own; together they are not.
	_, _, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 3},
		{TicketTypeID: "tt-vip", Quantity: 3},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestPriceSelectionsUnknownType(t *testing.T) {
	_, _, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 1},
		{TicketTypeID: "tt-missing", Quantity: 1},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestPriceSelectionsNegativePrice(t *testing.T) {
	types := []models.TicketType{{ID: "tt-bad", Name: "Broken", Price: -100}}
	_, _, err := priceSelections(types, []models.TicketSelection{
		{TicketTypeID: "tt-bad", Quantity: 1},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestPriceSelectionsOverPerOrderLimit(t *testing.T) {
	_, _, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 5}, // limit is 4
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestPriceSelectionsAllZeroQuantities(t *testing.T) {
	_, _, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-vip", Quantity: 0},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestPriceSelectionsZeroSubtotal(t *testing.T) {
	// Free tickets alone price to zero, which is rejected.
	_, _, err := priceSelections(testTypes(), []models.TicketSelection{
		{TicketTypeID: "tt-free", Quantity: 2},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestServiceFeeRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 650.0, serviceFee(13000))
	assert.Equal(t, 1.0, serviceFee(10))   // 0.5 rounds up
	assert.Equal(t, 2.0, serviceFee(30))   // 1.5 rounds up
	assert.Equal(t, 0.0, serviceFee(9))    // 0.45 rounds down
	assert.Equal(t, 50.0, serviceFee(1000))
}
