package files

import (
	"archive/zip"
	"bufio"
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dexsource/internal/domain"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // needed to decode webp
)

const binSize = 10

type Format string

const (
	// FormatAuto picks a PDF for long strip manga and a CBZ for everything else.
	FormatAuto Format = ""
	FormatCBZ  Format = "cbz"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatCBZ, FormatPDF:
		return f, nil
	default:
		return FormatAuto, errors.Errorf("unsupported archive format: %s", s)
	}
}

// Resolve returns the concrete format used for a manga with the given reading mode.
func (f Format) Resolve(mode domain.ReadingMode) Format {
	if f != FormatAuto {
		return f
	}
	if mode == domain.ReadingModeScroll {
		return FormatPDF
	}
	return FormatCBZ
}

func (f Format) Ext() string {
	return "." + string(f)
}

func IsValidLocation(location string) error {
	if location == "" {
		return errors.New("location is empty")
	}

	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// Archive packs all images in sourceDir into outPath using the given format.
func Archive(sourceDir, outPath string, format Format, mode domain.ReadingMode) error {
	switch format.Resolve(mode) {
	case FormatPDF:
		return CreatePDF(sourceDir, outPath)
	default:
		return CreateCbzArchive(sourceDir, outPath, mode == domain.ReadingModeScroll)
	}
}

// CreateCbzArchive creates a zip archive named cbzPath and adds all files from sourceDir to it.
// With dropOffWidth set, images whose width differs from the most common one are left out.
func CreateCbzArchive(sourceDir, cbzPath string, dropOffWidth bool) error {
	err := os.MkdirAll(filepath.Dir(cbzPath), os.ModePerm)
	if err != nil {
		return err
	}

	cbzFile, err := os.Create(cbzPath)
	if err != nil {
		return err
	}
	defer cbzFile.Close()

	writeBuf := bufio.NewWriter(cbzFile)
	defer writeBuf.Flush()

	zipWriter := zip.NewWriter(writeBuf)
	defer zipWriter.Close()

	var mostCommonWidth int
	if dropOffWidth {
		mostCommonWidth, err = commonWidth(sourceDir)
		if err != nil {
			return err
		}
	}

	return filepath.Walk(sourceDir, func(imgPath string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		img, err := decodeConfig(imgPath)
		if err != nil {
			return nil
		}

		if dropOffWidth && (img.Width < mostCommonWidth-binSize || img.Width > mostCommonWidth+binSize) {
			return nil
		}

		return addFileToZip(zipWriter, imgPath, info.Name())
	})
}

// commonWidth returns the most common image width in sourceDir, rounded down to binSize.
func commonWidth(sourceDir string) (int, error) {
	widthCount := make(map[int]int)

	walkErr := filepath.Walk(sourceDir, func(imgPath string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		img, err := decodeConfig(imgPath)
		if err != nil {
			return nil
		}

		widthCount[(img.Width/binSize)*binSize]++

		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}

	var mostCommonWidth, maxCount int
	for bin, count := range widthCount {
		if count > maxCount || (count == maxCount && bin > mostCommonWidth) {
			maxCount = count
			mostCommonWidth = bin
		}
	}

	return mostCommonWidth, nil
}

func decodeConfig(imgPath string) (image.Config, error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return image.Config{}, err
	}
	defer imgFile.Close()

	img, _, err := image.DecodeConfig(imgFile)
	return img, err
}

// CreatePDF creates a pdf file named pdfPath and adds all files from sourceDir to it
func CreatePDF(sourceDir, pdfPath string) error {
	err := os.MkdirAll(filepath.Dir(pdfPath), os.ModePerm)
	if err != nil {
		return err
	}

	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitMillimeter, "", "")

	walkErr := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		pdfInfo, err := registerImage(pdf, path)
		if err != nil {
			return errors.Wrapf(err, "could not add %s", info.Name())
		}

		imgWidth, imgHeight := pdfInfo.Extent()

		// filter out wide images
		if imgWidth > imgHeight {
			return nil
		}

		pdf.AddPageFormat(fpdf.OrientationPortrait, fpdf.SizeType{Wd: imgWidth, Ht: imgHeight})
		pdf.ImageOptions(path, 0, 0, imgWidth, imgHeight, false, fpdf.ImageOptions{}, 0, "")

		return pdf.Error()
	})
	if walkErr != nil {
		return walkErr
	}

	return pdf.OutputFileAndClose(pdfPath)
}

// registerImage adds the image at path to pdf under its path. Formats fpdf
// can't read natively, like webp, are converted to png first.
func registerImage(pdf *fpdf.Fpdf, path string) (*fpdf.ImageInfoType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		info := pdf.RegisterImageOptions(path, fpdf.ImageOptions{})
		return info, pdf.Error()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	info := pdf.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: "png"}, &buf)
	return info, pdf.Error()
}

// addFileToZip adds a single file to the zip archive
func addFileToZip(zipWriter *zip.Writer, filePath, fileName string) error {
	fileToZip, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer fileToZip.Close()

	writer, err := zipWriter.Create(fileName)
	if err != nil {
		return err
	}

	readerBuf := bufio.NewReader(fileToZip)

	_, err = io.Copy(writer, readerBuf)
	return err
}
