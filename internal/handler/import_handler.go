package handler

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportHandler struct {
	reelRepo *repository.ReelRepository
}

func NewImportHandler(reelRepo *repository.ReelRepository) *ImportHandler {
	return &ImportHandler{reelRepo: reelRepo}
}

// Columns: title, description, tags (pipe separated), difficulty,
// video_url, thumbnail_url, duration_sec, fen, status
type reelImportRow struct {
	Row          int
	Title        string
	Description  string
	Tags         []string
	Difficulty   string
	VideoURL     string
	ThumbnailURL string
	DurationSec  int
	FEN          string
	Status       string
}

// ImportReels bulk-creates reels from an uploaded CSV or XLSX file.
// With dry_run=true the file is only validated.
func (h *ImportHandler) ImportReels(c *fiber.Ctx) error {
	dryRun := c.FormValue("dry_run") == "true"

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_FILE", "No file uploaded"))
	}

	if file.Size > 5*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("FILE_TOO_LARGE", "Maximum file size is 5MB"))
	}

	filename := strings.ToLower(file.Filename)
	isCSV := strings.HasSuffix(filename, ".csv")
	isXLSX := strings.HasSuffix(filename, ".xlsx")
	if !isCSV && !isXLSX {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_FILE_TYPE", "File must be CSV or XLSX"))
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to open file"))
	}
	defer f.Close()

	var rows []reelImportRow
	var parseErrors []dto.ReelImportError
	if isCSV {
		rows, parseErrors = h.parseCSV(f)
	} else {
		rows, parseErrors = h.parseXLSX(f)
	}

	if len(rows) == 0 && len(parseErrors) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("EMPTY_FILE", "File has no data rows"))
	}

	if dryRun {
		return c.JSON(dto.SuccessResponse(dto.ReelImportDryRunResponse{
			TotalRows:        len(rows) + len(parseErrors),
			ReelsToCreate:    len(rows),
			ValidationErrors: parseErrors,
		}, "Dry run complete"))
	}

	uploadedBy := middleware.GetUserID(c)

	created := 0
	allErrors := parseErrors
	for _, row := range rows {
		reel := &domain.Reel{
			Video: domain.Video{
				URL:         row.VideoURL,
				DurationSec: row.DurationSec,
			},
			Content: domain.Content{
				Title:       row.Title,
				Description: row.Description,
				Tags:        domain.StringArray(row.Tags),
				Difficulty:  domain.Difficulty(row.Difficulty),
			},
			ChessData: domain.ChessData{
				FEN:         row.FEN,
				Orientation: "white",
			},
			Status:     domain.ReelStatus(row.Status),
			Folder:     domain.FolderRandom,
			UploadedBy: uploadedBy,
		}
		if row.ThumbnailURL != "" {
			thumb := row.ThumbnailURL
			reel.Video.ThumbnailURL = &thumb
		}

		if err := h.reelRepo.Create(reel); err != nil {
			allErrors = append(allErrors, dto.ReelImportError{
				Row:   row.Row,
				Title: row.Title,
				Error: "Failed to create reel: " + err.Error(),
			})
			continue
		}
		created++
	}

	return c.JSON(dto.SuccessResponse(dto.ReelImportResponse{
		TotalRows:    len(rows) + len(parseErrors),
		CreatedReels: created,
		Skipped:      len(allErrors),
		Errors:       allErrors,
	}, "Import complete"))
}

func (h *ImportHandler) parseCSV(r io.Reader) ([]reelImportRow, []dto.ReelImportError) {
	var rows []reelImportRow
	var errors []dto.ReelImportError

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++

		if err != nil {
			errors = append(errors, dto.ReelImportError{Row: rowNum, Error: "Failed to read row"})
			continue
		}

		if rowNum == 1 && len(record) > 0 && strings.ToLower(record[0]) == "title" {
			continue
		}

		row, parseErr := h.parseRow(rowNum, record)
		if parseErr != nil {
			errors = append(errors, *parseErr)
			continue
		}
		rows = append(rows, *row)
	}

	return rows, errors
}

func (h *ImportHandler) parseXLSX(r io.Reader) ([]reelImportRow, []dto.ReelImportError) {
	var rows []reelImportRow
	var errors []dto.ReelImportError

	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		errors = append(errors, dto.ReelImportError{Row: 0, Error: "Failed to read XLSX file"})
		return rows, errors
	}
	defer xlsx.Close()

	sheets := xlsx.GetSheetList()
	if len(sheets) == 0 {
		errors = append(errors, dto.ReelImportError{Row: 0, Error: "XLSX file has no sheets"})
		return rows, errors
	}

	xlsxRows, err := xlsx.GetRows(sheets[0])
	if err != nil {
		errors = append(errors, dto.ReelImportError{Row: 0, Error: "Failed to read sheet"})
		return rows, errors
	}

	for i, record := range xlsxRows {
		rowNum := i + 1

		if rowNum == 1 && len(record) > 0 && strings.ToLower(record[0]) == "title" {
			continue
		}

		row, parseErr := h.parseRow(rowNum, record)
		if parseErr != nil {
			errors = append(errors, *parseErr)
			continue
		}
		rows = append(rows, *row)
	}

	return rows, errors
}

func (h *ImportHandler) parseRow(rowNum int, record []string) (*reelImportRow, *dto.ReelImportError) {
	if len(record) < 5 {
		return nil, &dto.ReelImportError{Row: rowNum, Error: "Incomplete row (at least 5 columns required)"}
	}

	col := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	title := col(0)
	if title == "" {
		return nil, &dto.ReelImportError{Row: rowNum, Error: "Title is required"}
	}

	difficulty := strings.ToLower(col(3))
	if difficulty == "" {
		difficulty = string(domain.DifficultyBeginner)
	}
	if !domain.ValidDifficulty(difficulty) {
		return nil, &dto.ReelImportError{Row: rowNum, Title: title, Error: "Difficulty must be beginner, intermediate, or advanced"}
	}

	videoURL := col(4)
	if videoURL == "" {
		return nil, &dto.ReelImportError{Row: rowNum, Title: title, Error: "Video URL is required"}
	}

	durationSec := 0
	if raw := col(6); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			return nil, &dto.ReelImportError{Row: rowNum, Title: title, Error: "Duration must be a non-negative number of seconds"}
		}
		durationSec = d
	}

	status := strings.ToLower(col(8))
	if status == "" {
		status = string(domain.ReelDraft)
	}
	switch domain.ReelStatus(status) {
	case domain.ReelDraft, domain.ReelPublished, domain.ReelArchived:
	default:
		return nil, &dto.ReelImportError{Row: rowNum, Title: title, Error: "Status must be draft, published, or archived"}
	}

	var tags []string
	for _, t := range strings.Split(col(2), "|") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, strings.ToLower(t))
		}
	}

	return &reelImportRow{
		Row:          rowNum,
		Title:        title,
		Description:  col(1),
		Tags:         tags,
		Difficulty:   difficulty,
		VideoURL:     videoURL,
		ThumbnailURL: col(5),
		DurationSec:  durationSec,
		FEN:          col(7),
		Status:       status,
	}, nil
}

// DownloadTemplate returns a sample CSV for the import format.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=template_import_reels.csv")

	template := "title,description,tags,difficulty,video_url,thumbnail_url,duration_sec,fen,status\n"
	template += "Greek Gift Sacrifice,Classic Bxh7+ pattern,tactics|sacrifice,intermediate,https://cdn.example.com/reels/videos/greek-gift.mp4,,45,r1bq1rk1/ppp2ppp/2n1pn2/3p4/1bPP4/2NBPN2/PP3PPP/R1BQK2R w KQ - 0 1,draft\n"
	template += "Opposition Basics,King and pawn endgame fundamentals,endgame|basics,beginner,https://cdn.example.com/reels/videos/opposition.mp4,,60,8/8/8/4k3/8/4K3/4P3/8 w - - 0 1,published\n"

	return c.SendString(template)
}
