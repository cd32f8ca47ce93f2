package views

import (
	"testing"

	"autotrip/models"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func item(category string, cost *float64) models.ItineraryItem {
	return models.ItineraryItem{ID: category, Title: category, Category: category, Cost: cost}
}

func TestBudget_BucketsAndTotal(t *testing.T) {
	it := &models.Itinerary{
		Location: "Paris",
		Days: []models.ItineraryDay{
			{Day: 1, Items: []models.ItineraryItem{
				item(models.CategoryHotel, f64(200)),
				item(models.CategoryRestaurant, f64(30.5)),
				item(models.CategoryAttraction, nil),
			}},
			{Day: 2, Items: []models.ItineraryItem{
				item(models.CategoryMeal, f64(20)),
				item(models.CategoryTransport, f64(15)),
				item("spa", f64(99)),
			}},
		},
	}

	b := Budget(it)
	assert.Equal(t, 200.0, b.Hotel)
	assert.Equal(t, 50.5, b.Meals)
	assert.Equal(t, 0.0, b.Attractions)
	assert.Equal(t, 15.0, b.Transport)
	assert.Equal(t, 265.5, b.Total)

	assert.Equal(t, []BudgetTile{
		{Label: "Hotel", Amount: 200},
		{Label: "Meals", Amount: 50.5},
		{Label: "Transport", Amount: 15},
	}, b.Tiles())
}

func TestBudget_NilAndEmpty(t *testing.T) {
	assert.Equal(t, BudgetBreakdown{}, Budget(nil))
	assert.Equal(t, BudgetBreakdown{}, Budget(&models.Itinerary{}))
	assert.Empty(t, BudgetBreakdown{}.Tiles())
}

func TestDisplayTotal(t *testing.T) {
	b := BudgetBreakdown{Total: 265.2}

	assert.Equal(t, 266.0, DisplayTotal(&models.Itinerary{}, b))
	assert.Equal(t, 266.0, DisplayTotal(&models.Itinerary{TotalEstimatedCost: f64(0)}, b))
	assert.Equal(t, 1001.0, DisplayTotal(&models.Itinerary{TotalEstimatedCost: f64(1000.01)}, b))
	assert.Equal(t, 0.0, DisplayTotal(nil, BudgetBreakdown{}))
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Trip from Berlin to Paris", Heading(&models.Itinerary{Origin: "Berlin", Location: "Paris"}))
	assert.Equal(t, "Your Paris Itinerary", Heading(&models.Itinerary{Location: "Paris"}))
}

func TestBudget_MealAndRestaurantShareBucket(t *testing.T) {
	build := func(category string) *models.Itinerary {
		return &models.Itinerary{
			Location: "Rome",
			Days: []models.ItineraryDay{{Day: 1, Items: []models.ItineraryItem{
				item(models.CategoryHotel, f64(120)),
				item(category, f64(42.25)),
				item(models.CategoryAttraction, f64(18)),
			}}},
		}
	}

	withMeal := build(models.CategoryMeal)
	withRestaurant := build(models.CategoryRestaurant)

	assert.Equal(t, Budget(withMeal), Budget(withRestaurant))
	assert.Equal(t, Budget(withMeal).Tiles(), Budget(withRestaurant).Tiles())
	assert.Equal(t, 42.25, Budget(withMeal).Meals)
}
