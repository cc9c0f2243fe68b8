/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package confloader

import (
	"fmt"
	"strings"
)

const (
	docOpen  = "/***********************************************************************\n"
	docClose = " **********************************************************************/"

	deviceIDParam = " * |param deviceId[Device ID] A markup to specify OpenCL platform and device. \n" +
		" * The markup takes the format [platform index]:[device index] \n" +
		" * The platform index represents a platform ID found in clGetPlatformIDs(). \n" +
		" * The device index represents a device ID found in clGetDeviceIDs(). \n" +
		" * |default \"0:0\" \n"
)

// tunableDoc is the documentation exposed for a tunable that the descriptor
// leaves to the user.
type tunableDoc struct {
	param  string
	setter string
}

var (
	localSizeDoc = tunableDoc{
		param: " * |param localSize[Local Size] The number of work units/resources to allocate. \n" +
			" * This controls the parallelism of the kernel execution. \n" +
			" * |default 2 \n",
		setter: " * |setter setLocalSize(localSize) \n",
	}
	globalFactorDoc = tunableDoc{
		param: " * |param globalFactor[Global Factor] This factor controls the global size. \n" +
			" * The global size is the number of kernel iterations per call. \n" +
			" * Global size = number of input elements * global factor. \n" +
			" * |default 1.0 \n",
		setter: " * |setter setGlobalFactor(globalFactor) \n",
	}
	productionFactorDoc = tunableDoc{
		param: " * |param productionFactor[Production Factor] This factor controls the elements produced. \n" +
			" * For each call to work, elements produced = number of input elements * production factor. \n" +
			" * |default 1.0 \n",
		setter: " * |setter setProductionFactor(productionFactor) \n",
	}
)

// GenerateDoc renders the documentation block for a descriptor. A tunable
// whose value is bound in fa is left out of both the params and the setters.
func GenerateDoc(fa FactoryArgs, da BlockDescriptionArgs, factory string) string {
	var params, setters strings.Builder
	for _, t := range []struct {
		bound bool
		doc   tunableDoc
	}{
		{fa.LocalSize.IsSet(), localSizeDoc},
		{fa.GlobalFactor.IsSet(), globalFactorDoc},
		{fa.ProductionFactor.IsSet(), productionFactorDoc},
	} {
		if t.bound {
			continue
		}
		params.WriteString(t.doc.param)
		setters.WriteString(t.doc.setter)
	}

	var b strings.Builder
	b.WriteString(docOpen)
	fmt.Fprintf(&b, " * |PothosDoc %s \n", da.BlockName)
	for _, line := range strings.Split(da.Description.ValueOr(""), "\n") {
		fmt.Fprintf(&b, " * %s\n", strings.TrimRight(line, "\r"))
	}
	for _, c := range da.Categories {
		fmt.Fprintf(&b, " * |category %s\n", c)
	}
	b.WriteString(" *\n")
	for _, k := range da.Keywords.ValueOr(nil) {
		fmt.Fprintf(&b, " * |keyword %s\n", k)
	}
	b.WriteString(" *\n")
	b.WriteString(deviceIDParam)
	b.WriteString(" *\n")
	b.WriteString(params.String())
	fmt.Fprintf(&b, " * |factory %s(deviceId) \n", factory)
	b.WriteString(setters.String())
	b.WriteString(docClose)
	return b.String()
}
