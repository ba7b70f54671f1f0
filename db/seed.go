package db

import (
	"context"
	"fmt"
	"time"

	"ecobarter-backend/model"
)

const DemoUserID = "demo-user"

// DemoItems is the starter catalog shown before real users list anything.
var DemoItems = []model.Item{
	{Title: "Vintage Acoustic Guitar", Description: "Beautiful vintage guitar in excellent condition", Value: 450, Category: "Musical Instruments", Condition: model.ConditionExcellent,
		Images: []string{"https://images.pexels.com/photos/1049690/pexels-photo-1049690.jpeg?auto=compress&cs=tinysrgb&w=400"}},
	{Title: "High-End DSLR Camera", Description: "Professional camera with multiple lenses", Value: 800, Category: "Electronics", Condition: model.ConditionGood,
		Images: []string{"https://images.pexels.com/photos/90946/pexels-photo-90946.jpeg?auto=compress&cs=tinysrgb&w=400"}},
	{Title: "Artisan Coffee Maker", Description: "Premium espresso machine for coffee lovers", Value: 320, Category: "Kitchen", Condition: model.ConditionExcellent,
		Images: []string{"https://images.pexels.com/photos/4226796/pexels-photo-4226796.jpeg?auto=compress&cs=tinysrgb&w=400"}},
	{Title: "Mountain Bike", Description: "Professional trail bike with premium components", Value: 600, Category: "Sports", Condition: model.ConditionGood,
		Images: []string{"https://images.pexels.com/photos/100582/pexels-photo-100582.jpeg?auto=compress&cs=tinysrgb&w=400"}},
	{Title: "Designer Office Chair", Description: "Ergonomic chair with premium materials", Value: 400, Category: "Home & Garden", Condition: model.ConditionExcellent,
		Images: []string{"https://images.pexels.com/photos/586024/pexels-photo-586024.jpeg?auto=compress&cs=tinysrgb&w=400"}},
	{Title: "Professional Art Set", Description: "Complete set with paints, brushes, and canvas", Value: 280, Category: "Art & Crafts", Condition: model.ConditionGood,
		Images: []string{"https://images.pexels.com/photos/1109541/pexels-photo-1109541.jpeg?auto=compress&cs=tinysrgb&w=400"}},
}

// ItemInserter is satisfied by dao.ItemRepository.
type ItemInserter interface {
	Insert(ctx context.Context, item *model.Item) error
}

// Seed inserts DemoItems when the items table is empty and reports how many
// rows were added.
func Seed(ctx context.Context, c *Conn, items ItemInserter) (int, error) {
	var count int
	if err := c.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now()
	for i, demo := range DemoItems {
		item := demo
		item.ID = model.NewID()
		item.UserID = DemoUserID
		item.Status = model.StatusAvailable
		item.Images = append([]string(nil), demo.Images...)
		item.CreatedAt = now
		item.UpdatedAt = now
		if err := items.Insert(ctx, &item); err != nil {
			return i, fmt.Errorf("insert demo item %q: %w", item.Title, err)
		}
	}
	return len(DemoItems), nil
}
