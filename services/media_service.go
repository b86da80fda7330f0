package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const avatarFolder = "skill_swap_avatars"

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// MediaService signs direct browser uploads to Cloudinary.
type MediaService struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

func NewMediaService(cld *cloudinary.Cloudinary) *MediaService {
	return &MediaService{cld: cld, now: time.Now}
}

func (s *MediaService) SignAvatarUpload() (*UploadSignature, error) {
	if s.cld == nil {
		return nil, fmt.Errorf("media uploads are not configured: %w", ErrUnavailable)
	}

	params, err := api.StructToParams(uploader.UploadParams{Folder: avatarFolder})
	if err != nil {
		return nil, fmt.Errorf("prepare signature params: %w", err)
	}
	timestamp := s.now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, s.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    avatarFolder,
	}, nil
}
