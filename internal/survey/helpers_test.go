package survey

import (
	"context"
	"sync"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/storage"
)

// fakeUploader records uploads in memory and fails with err when set.
type fakeUploader struct {
	mu      sync.Mutex
	err     error
	uploads []fakeUpload
}

type fakeUpload struct {
	name        string
	contentType string
	data        []byte
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, name, contentType string) (storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.UploadResult{}, f.err
	}
	f.uploads = append(f.uploads, fakeUpload{name: name, contentType: contentType, data: data})
	return storage.UploadResult{
		ObjectID: "obj-" + name,
		Name:     name,
		ViewLink: "https://drive.google.com/file/d/obj/view",
	}, nil
}

func (f *fakeUploader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func completeResponse() fucom.Response {
	r := fucom.DefaultCatalog().NewResponse()
	r.Demographics = fucom.Demographics{
		FullName:       "Ayşe Can",
		Age:            "34",
		Profession:     "Mühendis",
		Gender:         "Kadın",
		EducationLevel: "Lisans",
	}
	fucom.GenerateAll(&r)
	for _, g := range fucom.Groups {
		cmps := r.Comparisons(g)
		for i := range cmps {
			cmps[i].Value = fucom.ImportanceVery
		}
	}
	return r
}
