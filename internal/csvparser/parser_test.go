package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		sample  string
		want    rune
		wantErr bool
	}{
		{name: "comma", sample: "product,price,qty\nApple,1.50,2\n", want: ','},
		{name: "semicolon", sample: "product;price;qty\nApple;1.50;2\n", want: ';'},
		{name: "semicolon with comma decimals", sample: "product;price;qty\nApple;1,50;2\nPear;2,10;1\n", want: ';'},
		{name: "quoted comma inside semicolon file", sample: "product;price;qty\n\"Milk, whole\";1.20;1\n", want: ';'},
		{name: "header only", sample: "product,price,qty", want: ','},
		{name: "prefers comma on tie", sample: "a,b;c\nd,e;f\n", want: ','},
		{name: "single column", sample: "product\nApple\n", wantErr: true},
		{name: "tab separated", sample: "product\tprice\tqty\nApple\t1.50\t2\n", wantErr: true},
		{name: "inconsistent", sample: "a,b\nc,d,e\nf\ng,h,i,j\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectDelimiter(tt.sample)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.Delimiter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), string(got))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("comma file", func(t *testing.T) {
		path := writeFile(t, "input.csv", "product,price,qty\nApple,1.50,2\nBread,0.99,3")

		data, err := Parse(path)
		require.NoError(t, err)

		require.Len(t, data.Items, 2)
		assert.Equal(t, "Apple", data.Items[0].Product)
		assert.Equal(t, "1.50", data.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, int64(2), data.Items[0].Quantity)
		assert.Equal(t, "3.00", data.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, "Bread", data.Items[1].Product)
		assert.Equal(t, "2.97", data.Items[1].LineTotal.StringFixed(2))
		assert.Equal(t, "5.97", data.Total.StringFixed(2))
		assert.Equal(t, ',', data.Delimiter)
		assert.Equal(t, path, data.SourceFile)
		assert.Equal(t, 2, data.RowCount)
	})

	t.Run("semicolon file gives the same items", func(t *testing.T) {
		comma, err := Parse(writeFile(t, "a.csv", "product,price,qty\nApple,1.50,2\nBread,0.99,3"))
		require.NoError(t, err)
		semi, err := Parse(writeFile(t, "b.csv", "product;price;qty\nApple;1.50;2\nBread;0.99;3"))
		require.NoError(t, err)

		assert.Equal(t, ';', semi.Delimiter)
		assert.Equal(t, comma.Items, semi.Items)
		assert.True(t, comma.Total.Equal(semi.Total))
	})

	t.Run("header case and column order", func(t *testing.T) {
		path := writeFile(t, "input.csv", "\ufeffQty,PRODUCT, Price \n4,Egg,0.25\n")

		data, err := Parse(path)
		require.NoError(t, err)
		require.Len(t, data.Items, 1)
		assert.Equal(t, "Egg", data.Items[0].Product)
		assert.Equal(t, "1.00", data.Total.StringFixed(2))
	})

	t.Run("keeps duplicates in order", func(t *testing.T) {
		path := writeFile(t, "input.csv", "product,price,qty\nTea,1.00,1\nTea,1.00,1\nCake,2.50,1\n")

		data, err := Parse(path)
		require.NoError(t, err)
		require.Len(t, data.Items, 3)
		assert.Equal(t, []string{"Tea", "Tea", "Cake"}, products(data))
		assert.Equal(t, 4, data.Items[2].RowNumber)
	})

	t.Run("rounds total once", func(t *testing.T) {
		path := writeFile(t, "input.csv", "product,price,qty\nA,0.333,3\nB,0.335,1\n")

		data, err := Parse(path)
		require.NoError(t, err)
		// 0.33 x 3 = 0.99, 0.34 x 1 = 0.34
		assert.Equal(t, "1.33", data.Total.StringFixed(2))
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind apperror.Kind
		contains string
	}{
		{name: "empty", content: "  \n\n ", wantKind: apperror.EmptyFile},
		{name: "undetectable delimiter", content: "product\nApple\n", wantKind: apperror.Delimiter},
		{name: "missing qty", content: "product,price\nApple,1.50\n", wantKind: apperror.MissingColumns, contains: "qty"},
		{name: "header only", content: "product,price,qty\n", wantKind: apperror.NoData},
		{name: "empty product", content: "product,price,qty\n  ,1.50,2\n", wantKind: apperror.EmptyProduct, contains: "row 2"},
		{name: "comma price", content: "product;price;qty\nApple;12,50;2\n", wantKind: apperror.Format},
		{name: "negative price", content: "product,price,qty\nApple,-1.00,2\n", wantKind: apperror.Format},
		{name: "fractional qty", content: "product,price,qty\nApple,1.00,1.5\n", wantKind: apperror.Format},
		{name: "bad row after good row", content: "product,price,qty\nApple,1.00,1\nPear,x,1\n", wantKind: apperror.Format, contains: "row 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writeFile(t, "input.csv", tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err), err.Error())
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.NotFound))

	_, err = Parse(t.TempDir())
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
}

func TestParseWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Product", "Price", "Qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Apple", "1.50", "2"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Bread", "0.99", "3"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	data, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Bread"}, products(data))
	assert.Equal(t, "5.97", data.Total.StringFixed(2))
	assert.Equal(t, rune(0), data.Delimiter)
}

func TestParseWorkbookHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"product", "price", "qty"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Parse(path)
	assert.True(t, apperror.IsKind(err, apperror.NoData))
}

func products(data *CSVData) []string {
	names := make([]string, len(data.Items))
	for i, item := range data.Items {
		names[i] = item.Product
	}
	return names
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
