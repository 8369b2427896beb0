// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reassemble

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datapacket/pkg/types"
)

const width = 7

// labelRow is a continuation row: label only, six null data cells.
func labelRow(label string) types.RawRow {
	return types.Row(label, "", "", "", "", "", "")
}

// dataRow is a terminator row: null label, six data cells.
func dataRow(vals ...int) types.RawRow {
	row := types.RawRow{types.Null}
	for _, v := range vals {
		row = append(row, types.Text(fmt.Sprint(v)))
	}
	return row
}

func completeRow(label string, vals ...int) types.RawRow {
	row := dataRow(vals...)
	row[0] = types.Text(label)
	return row
}

// values flattens records to label plus data strings for comparison.
func values(rows []types.CanonicalRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string{r.Label}, cellStrings(r.Data)...)
	}
	return out
}

func cellStrings(cells []types.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		row  types.RawRow
		want Kind
	}{
		{"complete", completeRow("Texas", 1, 2, 3, 4, 5, 6), Complete},
		{"label only", labelRow("North"), LabelOnly},
		{"data only", dataRow(1, 2, 3, 4, 5, 6), DataOnly},
		{"empty", types.Row("", "", "", "", "", "", ""), Empty},
		{"first data cell decides", types.Row("Utah", "", "20.1", "", "", "", ""), LabelOnly},
		{"zero width", types.RawRow{}, Empty},
		{"label without data columns", types.Row("Ohio"), LabelOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.row))
		})
	}
}

func TestRows_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		in   []types.RawRow
		want [][]string
	}{
		{
			name: "two-word label merged",
			in: []types.RawRow{
				labelRow("New"),
				labelRow("Hampshire"),
				dataRow(1, 2, 3, 4, 5, 6),
			},
			want: [][]string{{"New Hampshire", "1", "2", "3", "4", "5", "6"}},
		},
		{
			name: "complete row passes through",
			in:   []types.RawRow{completeRow("Texas", 1, 2, 3, 4, 5, 6)},
			want: [][]string{{"Texas", "1", "2", "3", "4", "5", "6"}},
		},
		{
			name: "complete then split label keeps order",
			in: []types.RawRow{
				completeRow("Texas", 1, 2, 3, 4, 5, 6),
				labelRow("North"),
				labelRow("Dakota"),
				dataRow(7, 8, 9, 10, 11, 12),
			},
			want: [][]string{
				{"Texas", "1", "2", "3", "4", "5", "6"},
				{"North Dakota", "7", "8", "9", "10", "11", "12"},
			},
		},
		{
			name: "three fragments",
			in: []types.RawRow{
				labelRow("District"),
				labelRow("of"),
				labelRow("Columbia"),
				dataRow(32, 18, 4, 3, 2, 1),
			},
			want: [][]string{{"District of Columbia", "32", "18", "4", "3", "2", "1"}},
		},
		{
			name: "empty input",
			in:   nil,
			want: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rows(tt.in, width)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values(got))
		})
	}
}

func TestRows_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		in        []types.RawRow
		wantIndex int
		wantKind  Kind
	}{
		{
			name: "unterminated run at end",
			in: []types.RawRow{
				completeRow("Texas", 1, 2, 3, 4, 5, 6),
				labelRow("South"),
			},
			wantIndex: 1,
			wantKind:  LabelOnly,
		},
		{
			name: "complete row while fragments pending",
			in: []types.RawRow{
				labelRow("West"),
				completeRow("Virginia", 1, 2, 3, 4, 5, 6),
			},
			wantIndex: 1,
			wantKind:  Complete,
		},
		{
			name: "data row without label",
			in: []types.RawRow{
				completeRow("Texas", 1, 2, 3, 4, 5, 6),
				dataRow(1, 2, 3, 4, 5, 6),
			},
			wantIndex: 1,
			wantKind:  DataOnly,
		},
		{
			name:      "empty row",
			in:        []types.RawRow{types.Row("", "", "", "", "", "", "")},
			wantIndex: 0,
			wantKind:  Empty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rows(tt.in, width)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrMalformedSequence))

			var me *MalformedSequenceError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.wantIndex, me.Index)
			assert.Equal(t, tt.wantKind, me.Kind)
		})
	}
}

func TestRows_UnterminatedReportsPendingLabel(t *testing.T) {
	in := []types.RawRow{labelRow("South"), labelRow("Carolina")}

	_, err := Rows(in, width)

	var me *MalformedSequenceError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, []string{"South", "Carolina"}, me.Pending)
	assert.Contains(t, err.Error(), `"South Carolina"`)
	assert.Contains(t, err.Error(), "row 0")
}

func TestRows_SchemaMismatch(t *testing.T) {
	in := []types.RawRow{
		completeRow("Texas", 1, 2, 3, 4, 5, 6),
		types.Row("Iowa", "1", "2", "3", "4", "5"),
	}

	got, err := Rows(in, width)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.False(t, errors.Is(err, ErrMalformedSequence))

	var se *SchemaMismatchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, 6, se.Got)
	assert.Equal(t, 7, se.Want)
}

func TestRows_DoesNotModifyInput(t *testing.T) {
	in := []types.RawRow{labelRow("New"), labelRow("York"), dataRow(1, 2, 3, 4, 5, 6)}
	snapshot := make([]types.RawRow, len(in))
	for i, r := range in {
		snapshot[i] = append(types.RawRow(nil), r...)
	}

	got, err := Rows(in, width)
	require.NoError(t, err)
	assert.Equal(t, snapshot, in)

	got[0].Data[0] = types.Text("changed")
	assert.Equal(t, "1", in[2][1].Value)
}

// mixedInput interleaves complete rows and split labels of varying length.
func mixedInput() []types.RawRow {
	return []types.RawRow{
		completeRow("Alabama", 100, 18, 1, 2, 3, 4),
		labelRow("New"),
		labelRow("Hampshire"),
		dataRow(5, 6, 7, 8, 9, 10),
		completeRow("Ohio", 11, 12, 13, 14, 15, 16),
		labelRow("District"),
		labelRow("of"),
		labelRow("Columbia"),
		dataRow(17, 18, 19, 20, 21, 22),
		labelRow("Wyoming"),
		dataRow(23, 24, 25, 26, 27, 28),
	}
}

func TestRows_Conservation(t *testing.T) {
	in := mixedInput()
	got, err := Rows(in, width)
	require.NoError(t, err)

	assert.Len(t, got, 5)
	assert.Equal(t, len(in), Consumed(got))
}

func TestRows_OrderPreservation(t *testing.T) {
	got, err := Rows(mixedInput(), width)
	require.NoError(t, err)

	origins := make([]int, len(got))
	for i, r := range got {
		origins[i] = r.Origin
	}
	assert.Equal(t, []int{0, 1, 4, 5, 9}, origins)
	assert.Equal(t, []string{"Alabama", "New Hampshire", "Ohio", "District of Columbia", "Wyoming"},
		[]string{got[0].Label, got[1].Label, got[2].Label, got[3].Label, got[4].Label})
}

func TestRows_Idempotent(t *testing.T) {
	first, err := Rows(mixedInput(), width)
	require.NoError(t, err)

	again := make([]types.RawRow, len(first))
	for i, r := range first {
		again[i] = append(types.RawRow{types.Text(r.Label)}, r.Data...)
	}
	second, err := Rows(again, width)
	require.NoError(t, err)

	assert.Equal(t, values(first), values(second))
	for _, r := range second {
		assert.Zero(t, r.Fragments)
	}
}

func TestRows_JoinUsesSingleSpace(t *testing.T) {
	in := []types.RawRow{
		{types.Cell{Value: "Rhode", Valid: true}, types.Null},
		{types.Cell{Value: "Island", Valid: true}, types.Null},
		{types.Null, types.Text("99")},
	}

	got, err := Rows(in, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rhode Island", got[0].Label)
	assert.Equal(t, 2, got[0].Fragments)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "label-only", LabelOnly.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
