package analysis

import (
	"reflect"
	"testing"
)

func TestExtractAllergens(t *testing.T) {
	t.Run("drops placeholders and empty fragments", func(t *testing.T) {
		got := ExtractAllergens("Peanuts, Milk, None, ")
		want := []string{"Peanuts", "Milk"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractAllergens = %v, want %v", got, want)
		}
	})

	t.Run("empty text returns empty non-nil slice", func(t *testing.T) {
		got := ExtractAllergens("")
		if got == nil {
			t.Fatal("ExtractAllergens returned nil, want empty slice")
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("placeholder-only text returns empty slice", func(t *testing.T) {
		if got := ExtractAllergens("None"); len(got) != 0 {
			t.Errorf("ExtractAllergens = %v, want empty", got)
		}
		if got := ExtractAllergens("n/a, No Allergens"); len(got) != 0 {
			t.Errorf("ExtractAllergens = %v, want empty", got)
		}
	})

	t.Run("preserves source order and duplicates", func(t *testing.T) {
		got := ExtractAllergens("Milk, Wheat, Milk")
		want := []string{"Milk", "Wheat", "Milk"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractAllergens = %v, want %v", got, want)
		}
	})

	t.Run("trims whitespace around entries", func(t *testing.T) {
		got := ExtractAllergens("  Soy ,  Eggs  ")
		want := []string{"Soy", "Eggs"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractAllergens = %v, want %v", got, want)
		}
	})
}

func TestExtractRecommendations(t *testing.T) {
	t.Run("splits on commas", func(t *testing.T) {
		got := ExtractRecommendations("Enjoy Life Cookies, Simple Mills Crackers")
		want := []string{"Enjoy Life Cookies", "Simple Mills Crackers"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractRecommendations = %v, want %v", got, want)
		}
	})

	t.Run("drops fragments too short to name a product", func(t *testing.T) {
		got := ExtractRecommendations("ab, Enjoy Life Cookies, x")
		want := []string{"Enjoy Life Cookies"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractRecommendations = %v, want %v", got, want)
		}
	})

	t.Run("empty text returns empty non-nil slice", func(t *testing.T) {
		got := ExtractRecommendations("  ")
		if got == nil || len(got) != 0 {
			t.Errorf("ExtractRecommendations = %v, want empty slice", got)
		}
	})
}
