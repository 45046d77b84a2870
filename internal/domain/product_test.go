package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		ID:    "p-1",
		Name:  "La Roche-Posay Effaclar Duo+",
		Image: RemoteImage("https://cdn.example.com/effaclar.jpg"),
		Price: "649,90",
	}
}

func TestProductValidate(t *testing.T) {
	p := validProduct()
	require.NoError(t, p.Validate())

	p.Image = LocalImage("assets/products/effaclar.png")
	require.NoError(t, p.Validate())
}

func TestProductValidateMissingFields(t *testing.T) {
	cases := map[string]func(*Product){
		"id":       func(p *Product) { p.ID = "" },
		"name":     func(p *Product) { p.Name = "  " },
		"imageUrl": func(p *Product) { p.Image = ImageRef{} },
		"price":    func(p *Product) { p.Price = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			p := validProduct()
			mutate(&p)
			err := p.Validate()
			assert.ErrorIs(t, err, ErrInvalidProduct)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestProductValidateRatingAndIssue(t *testing.T) {
	p := validProduct()
	r := 5.5
	p.Rating = &r
	assert.ErrorIs(t, p.Validate(), ErrInvalidProduct)

	p = validProduct()
	p.SkinIssue = "freckles"
	assert.ErrorIs(t, p.Validate(), ErrInvalidSkinIssue)
}

func TestImageRefValidate(t *testing.T) {
	assert.ErrorIs(t, ImageRef{Kind: ImageLocal}.Validate(), ErrInvalidProduct)
	assert.ErrorIs(t, ImageRef{Kind: ImageRemote, URI: "https://x", Handle: "h"}.Validate(), ErrInvalidProduct)
	assert.ErrorIs(t, ImageRef{Kind: "cdn", URI: "https://x"}.Validate(), ErrInvalidProduct)
}

func TestImageRefUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want ImageRef
	}{
		{`"https://cdn.dsmcdn.com/a.jpg"`, ImageRef{Kind: ImageRemote, URI: "https://cdn.dsmcdn.com/a.jpg"}},
		{`"//cdn.dsmcdn.com/a.jpg"`, ImageRef{Kind: ImageRemote, URI: "https://cdn.dsmcdn.com/a.jpg"}},
		{`"assets/cream.png"`, ImageRef{Kind: ImageLocal, Handle: "assets/cream.png"}},
		{`{"kind":"local","handle":"7"}`, ImageRef{Kind: ImageLocal, Handle: "7"}},
		{`{"kind":"remote","uri":"//img/x.png"}`, ImageRef{Kind: ImageRemote, URI: "https://img/x.png"}},
	}
	for _, tc := range cases {
		var got ImageRef
		require.NoError(t, json.Unmarshal([]byte(tc.in), &got), tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	var bad ImageRef
	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &bad), ErrInvalidProduct)
}

func TestProductUpdateApply(t *testing.T) {
	p := validProduct()
	name := "Effaclar Duo+ M"
	rating := 4.6
	u := ProductUpdate{Name: &name, Rating: &rating}
	require.False(t, u.Empty())

	got := u.Apply(p)
	assert.Equal(t, name, got.Name)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4.6, *got.Rating)
	assert.Equal(t, p.Price, got.Price)
	assert.Equal(t, "La Roche-Posay Effaclar Duo+", p.Name)

	assert.True(t, ProductUpdate{}.Empty())
}
