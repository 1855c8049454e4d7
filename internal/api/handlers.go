package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmstack/s3vfs"
	"github.com/cmstack/s3vfs/internal/record"
	"github.com/cmstack/s3vfs/utils"
)

// signUpload issues a signed upload policy for a browser direct upload.
// The request carries destination, filename, Content-Type, acl, and any
// additional form fields the client wants included in the POST; the response
// is the browser form {attributes, inputs, options, url}.
func (s *Server) signUpload(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		signRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	destination := fields["destination"]
	filename := fields["filename"]
	if destination == "" || filename == "" {
		signRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination and filename are required"})
		return
	}

	fs := s.lookup(utils.Scheme(destination))
	if fs == nil {
		signRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("no store registered for scheme %q", utils.Scheme(destination))})
		return
	}
	signer, ok := fs.(vfs.Signer)
	if !ok {
		signRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "store does not support signed uploads"})
		return
	}

	post, err := signer.Sign(c.Request.Context(), vfs.SignRequest{
		Destination: destination,
		Filename:    filename,
		ContentType: fields["Content-Type"],
		ACL:         fields["acl"],
		Fields:      fields,
	})
	if err != nil {
		signRequests.WithLabelValues("error").Inc()
		s.logger.Error("sign request failed", "destination", destination, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signing failed"})
		return
	}

	signRequests.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, post)
}

// saveUpload finalizes a completed direct upload: it records the
// client-reported url, filesize, and filemime as a durable file record owned
// by the current actor and returns the assigned id.
//
// The report is trusted as-is; the object is not re-verified against the
// store.
func (s *Server) saveUpload(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		saveRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	uri := fields["url"]
	if uri == "" {
		saveRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	filesize, err := strconv.ParseInt(fields["filesize"], 10, 64)
	if err != nil {
		saveRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "filesize must be an integer"})
		return
	}

	fid, err := s.records.CreateFileRecord(c.Request.Context(), record.FileRecord{
		URI:      uri,
		Filename: utils.Basename(uri),
		Filesize: filesize,
		MimeType: fields["filemime"],
		OwnerID:  actor(c),
	})
	if err != nil {
		saveRequests.WithLabelValues("error").Inc()
		s.logger.Error("file record creation failed", "uri", uri, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "saving file record failed"})
		return
	}

	saveRequests.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"fid": fid})
}

// bindFields flattens the request body into a field map, accepting either a
// JSON object or an urlencoded/multipart form.
func bindFields(c *gin.Context) (map[string]string, error) {
	fields := make(map[string]string)

	if strings.Contains(c.ContentType(), "json") {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		for name, value := range raw {
			switch v := value.(type) {
			case string:
				fields[name] = v
			case float64:
				fields[name] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				fields[name] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	if err := c.Request.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
		return nil, err
	}
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}
	return fields, nil
}
