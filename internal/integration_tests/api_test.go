package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	backend "portfolio-backend/internal/api"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/storage"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadBucket = "uploads"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupBackend(t *testing.T, ctx context.Context) (chi.Router, string) {
	uri := setupPostgresContainer(t, ctx)
	db, err := database.NewDatabase(uri)
	require.NoError(t, err)

	// The profile row is provisioned outside the service in production;
	// the tests play that role here.
	require.NoError(t, db.Create(&database.Profile{Id: database.ProfileRowId, Name: "Owner"}).Error)

	endpoint := setupMinioContainer(t, ctx)
	objects, err := storage.NewS3ObjectStore(storage.S3ClientConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
		Bucket:          uploadBucket,
	})
	require.NoError(t, err)
	require.NoError(t, objects.CreateBucket(ctx))

	service := backend.NewBackendService(db, objects)
	router := chi.NewRouter()
	service.AddRoutes(router)

	return router, endpoint
}

func doJSON(t *testing.T, router http.Handler, method, endpoint, payload string) (int, envelope) {
	req := httptest.NewRequest(method, endpoint, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "response was not an envelope: %s", rec.Body.String())
	return rec.Code, env
}

func TestBackendAgainstPostgresAndMinio(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	router, endpoint := setupBackend(t, ctx)

	t.Run("HistoryRoundTrip", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPost, "/api/history", `{"title":"first","message":"one"}`)
		require.Equal(t, http.StatusCreated, code)
		code, _ = doJSON(t, router, http.MethodPost, "/api/history", `{"title":"second","message":"two"}`)
		require.Equal(t, http.StatusCreated, code)

		code, env := doJSON(t, router, http.MethodGet, "/api/history", "")
		require.Equal(t, http.StatusOK, code)

		var records []struct {
			Id    uint   `json:"id"`
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &records))
		require.Len(t, records, 2)
		assert.Equal(t, "second", records[0].Title, "newest first")
		assert.Equal(t, "first", records[1].Title)

		code, env = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/history/%d", records[1].Id), "")
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, env.Success)

		code, env = doJSON(t, router, http.MethodGet, "/api/history/999", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Tidak memiliki akses", env.Message)
	})

	t.Run("Feedback", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPost, "/api/feedback", `{"comment":"great","rating":4}`)
		assert.Equal(t, http.StatusCreated, code)

		code, _ = doJSON(t, router, http.MethodPost, "/api/feedback", `{"comment":"bad","rating":5}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("ProfileUpload", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("name", "Integration Owner"))

		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="profile_picture"; filename="avatar.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/profile", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "received response: "+rec.Body.String())

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

		var resp struct {
			Name              string `json:"name"`
			ProfilePictureUrl string `json:"profile_picture_url"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "Integration Owner", resp.Name)
		assert.True(t, strings.HasPrefix(resp.ProfilePictureUrl, endpoint+"/"+uploadBucket+"/profiles/"), "unexpected url: "+resp.ProfilePictureUrl)
		assert.True(t, strings.HasSuffix(resp.ProfilePictureUrl, "-avatar.jpg"))

		code, env := doJSON(t, router, http.MethodGet, "/api/profile", "")
		require.Equal(t, http.StatusOK, code)

		var profile struct {
			Name              string  `json:"name"`
			ProfilePictureUrl *string `json:"profile_picture_url"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.Equal(t, "Integration Owner", profile.Name)
		require.NotNil(t, profile.ProfilePictureUrl)
		assert.Equal(t, resp.ProfilePictureUrl, *profile.ProfilePictureUrl)
	})
}
