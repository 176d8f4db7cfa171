package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"encore/constants"
	docs "encore/doclib"
	"encore/media"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"go.uber.org/zap"
)

const formField = "files"

func UploadDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Upload Media",
		Description: "Accepts up to 10 `files` parts as multipart/form-data; further parts are reported as failed and not stored. "+
			"The type is sniffed from the content: " +
			"jpeg, png, webp and gif images up to 10 MB, mp4, mov, avi and webm videos up to 100 MB. " +
			"Every file gets its own result, so one bad file does not fail the batch. Videos that are still " +
			"processing come back with `ready` set to false.",
		Resp: types.UploadResponse{},
	}
}

func UploadRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	if state.Media == nil {
		return uapi.HttpResponse{
			Status: http.StatusServiceUnavailable,
			Json:   types.ApiError{Message: "Media uploads are not configured"},
		}
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Expected a multipart/form-data body"},
		}
	}

	resp := types.UploadResponse{Results: []types.UploadResult{}}
	attempted := 0

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return uapi.HttpResponse{
				Status: http.StatusBadRequest,
				Json:   types.ApiError{Message: "Malformed multipart body: " + err.Error()},
			}
		}

		if part.FormName() != formField || part.FileName() == "" {
			part.Close()
			continue
		}

		// Parts past the limit fail on their own; the ones already stored
		// upstream are still reported so the client gets their URLs.
		if attempted >= constants.MaxUploadParts {
			resp.Results = append(resp.Results, types.UploadResult{
				Name:  part.FileName(),
				Error: fmt.Sprintf("At most %d files can be uploaded at once", constants.MaxUploadParts),
			})
			part.Close()
			continue
		}

		attempted++
		resp.Results = append(resp.Results, uploadPart(d, part))
		part.Close()
	}

	if len(resp.Results) == 0 {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "No files were sent in the `files` field"},
		}
	}

	return uapi.HttpResponse{
		Json: resp,
	}
}

// uploadPart spools one part to disk so its type can be sniffed and its size
// checked before anything is sent upstream.
func uploadPart(d uapi.RouteData, part *multipart.Part) types.UploadResult {
	name := part.FileName()
	result := types.UploadResult{Name: name}

	f, err := os.CreateTemp("", "encore-upload-*")
	if err != nil {
		state.Logger.Error("Failed to create upload spool file", zap.Error(err))
		result.Error = "Could not store the file"
		return result
	}

	defer func() {
		f.Close()
		os.Remove(f.Name())
	}()

	size, err := io.Copy(f, io.LimitReader(part, constants.MaxVideoSize+1))
	if err != nil {
		result.Error = "Could not read the file"
		return result
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		result.Error = "Could not read the file"
		return result
	}

	m, err := media.Detect(f)
	if err != nil {
		result.Error = "Could not read the file"
		return result
	}

	kind, err := media.Classify(m, size)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	var asset *media.Asset
	if kind == types.MediaTypeVideo {
		asset, err = state.Media.UploadVideo(d.Context, name, f)
	} else {
		asset, err = state.Media.UploadImage(d.Context, name, f)
	}

	if err != nil {
		state.Logger.Error("Media upload failed",
			zap.Error(err),
			zap.String("name", name),
			zap.String("type", string(kind)),
			zap.String("userID", d.Auth.ID),
		)
		result.Error = "Upload failed, please try again"
		return result
	}

	item := asset.Item
	result.Success = true
	result.Item = &item
	result.Ready = asset.Ready
	return result
}
