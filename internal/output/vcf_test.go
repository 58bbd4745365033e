package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshicks/adios/internal/simulate"
)

func TestVCFWriter_Header(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf)

	ibd := simulate.NewInterval(150000000)
	require.NoError(t, w.WriteHeader(ibd, "gen-ibd-vcf --size 150mb"))
	require.NoError(t, w.Close())

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)

	assert.Equal(t, "##fileformat=VCF4.1", lines[0])
	assert.Equal(t, "##kind=simulation", lines[1])
	assert.Equal(t, "##source=gen-ibd-vcf --size 150mb", lines[2])
	assert.Equal(t, "##ibd=<Ind1=A,Ind2=B,Chr=1,start=37500000,stop=57500000,size=20000000>", lines[3])
	assert.Equal(t, `##INFO=<ID=AF,Number=.,Type=Float,Description="Allele MAF">`, lines[4])
	assert.Equal(t, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tDUMMY_A\tDUMMY_B", lines[5])
}

func TestVCFWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf)

	m := &simulate.Marker{
		Index: 3,
		Pos:   751,
		Freq:  0.012345,
		InIBD: true,
		A:     simulate.Genotype{First: 1, Second: 0},
		B:     simulate.Genotype{First: 1, Second: 1},
	}
	require.NoError(t, w.Write(m))
	require.NoError(t, w.Close())

	assert.Equal(t, "1\t751\tsim3\tA\tG\t255\tPASS\tAF=0.0123;IBD=1\tGT\t1|0\t1|1\n\n", buf.String())
	assert.Equal(t, int64(1), w.Lines())
}

func TestVCFWriter_TrailingBlankLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf)

	require.NoError(t, w.WriteHeader(simulate.NewInterval(1000), "test"))
	require.NoError(t, w.Write(&simulate.Marker{Pos: 1}))
	require.NoError(t, w.Close())

	assert.True(t, strings.HasSuffix(buf.String(), "\tGT\t0|0\t0|0\n\n"))
}

func TestFormatInfo(t *testing.T) {
	assert.Equal(t, "AF=0.0500;IBD=0", FormatInfo(0.05, false))
	assert.Equal(t, "AF=0.0000;IBD=1", FormatInfo(0, true))
	assert.Equal(t, "AF=1.2346;IBD=0", FormatInfo(1.23456, false))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestVCFWriter_WriteError(t *testing.T) {
	w := NewVCFWriter(failingWriter{})
	require.NoError(t, w.Write(&simulate.Marker{Pos: 1}))
	assert.EqualError(t, w.Close(), "disk full")
}

func TestCreateFile_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vcf")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are long"), 0644))

	f, err := CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("new")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCreateFile_MissingDir(t *testing.T) {
	_, err := CreateFile(filepath.Join(t.TempDir(), "no", "such", "dir", "out.vcf"))
	assert.Error(t, err)
}
