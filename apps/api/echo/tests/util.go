package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/alphauniversity/portal/apps/api/echo"
	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/content"
	"github.com/alphauniversity/portal/core/user"
	emailsvc "github.com/alphauniversity/portal/services/email"
	logsvc "github.com/alphauniversity/portal/services/logger"
	"github.com/alphauniversity/portal/storage/database/inmemdb"
)

var usrRepo user.Repository

func setup(t *testing.T) Server {
	t.Helper()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(core.Conf)
	usrSvc := user.NewService(usrRepo, mailSvc, core.Conf)
	emailsvc.ResetSentMessages()

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           core.Conf,
			Logger:         logsvc.NewStdLogger("TEST : "),
			UserSvc:        usrSvc,
			ContentStore:   content.NewFSStore(t.TempDir()),
			Catalog:        core.DefaultCatalog(),
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name         string
	method       string
	path         string
	body         []byte
	token        string
	wantCode     int
	wantData     []byte
	wantLocation string
	extra        interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds a multipart form request with text fields and an
// optional file part.
func newUploadRequest(
	t *testing.T,
	path, token string,
	fields map[string]string,
	filename string,
	fileContent io.Reader,
) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			t.Fatalf("WriteField() failed: %v", err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err := io.Copy(part, fileContent); err != nil {
			t.Fatalf("io.Copy() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Close() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr, false, core.Conf.AppName, core.Conf.SessionLifetime)
	token, err := GenerateToken(claims, []byte(core.Conf.SecretKey))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantLocation != "" {
		if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
			t.Errorf("failed! location = %v; wantLocation %v", loc, tt.wantLocation)
		}
		return
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
